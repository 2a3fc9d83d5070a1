// Package dte holds the JSON shapes of the MH electronic tax documents.
//
// Each document type has its own fixed shape. Field presence and nullability
// follow the published schema of the type; nullable fields are pointers or
// slices without omitempty so they serialize as null.
package dte

// Identification is the identificacion block shared by 01, 03, 05, 06 and 14
type Identification struct {
	Version           int     `json:"version"`
	Environment       string  `json:"ambiente"`
	DocumentType      string  `json:"tipoDte"`
	ControlNumber     string  `json:"numeroControl"`
	GenerationCode    string  `json:"codigoGeneracion"`
	ModelType         int     `json:"tipoModelo"`
	OperationType     int     `json:"tipoOperacion"`
	ContingencyType   *int    `json:"tipoContingencia"`
	ContingencyReason *string `json:"motivoContin"`
	IssueDate         string  `json:"fecEmi"`
	IssueTime         string  `json:"horEmi"`
	Currency          string  `json:"tipoMoneda"`
}

// Address is the direccion block
type Address struct {
	Department   string `json:"departamento"`
	Municipality string `json:"municipio"`
	Complement   string `json:"complemento"`
}

// Issuer is the emisor block of 01 and 03
type Issuer struct {
	NIT                 string  `json:"nit"`
	NRC                 string  `json:"nrc"`
	Name                string  `json:"nombre"`
	ActivityCode        string  `json:"codActividad"`
	ActivityDescription string  `json:"descActividad"`
	TradeName           *string `json:"nombreComercial"`
	EstablishmentType   string  `json:"tipoEstablecimiento"`
	Address             Address `json:"direccion"`
	Phone               string  `json:"telefono"`
	Email               string  `json:"correo"`
	EstablishmentCodeMH *string `json:"codEstableMH"`
	EstablishmentCode   *string `json:"codEstable"`
	POSCodeMH           *string `json:"codPuntoVentaMH"`
	POSCode             *string `json:"codPuntoVenta"`
}

// TaxCreditReceiver is the receptor block of 03, 05 and 06
type TaxCreditReceiver struct {
	NIT                 string   `json:"nit"`
	NRC                 string   `json:"nrc"`
	Name                string   `json:"nombre"`
	ActivityCode        *string  `json:"codActividad"`
	ActivityDescription *string  `json:"descActividad"`
	TradeName           *string  `json:"nombreComercial"`
	Address             *Address `json:"direccion"`
	Phone               *string  `json:"telefono"`
	Email               *string  `json:"correo"`
}

// RelatedDocument is one documentoRelacionado entry
type RelatedDocument struct {
	DocumentType   string `json:"tipoDocumento"`
	GenerationType int    `json:"tipoGeneracion"`
	DocumentNumber string `json:"numeroDocumento"`
	IssueDate      string `json:"fechaEmision"`
}

// OtherDocument is one otrosDocumentos entry
type OtherDocument struct {
	AssociatedCode int     `json:"codDocAsociado"`
	Description    *string `json:"descDocumento"`
	Detail         *string `json:"detalleDocumento"`
}

// ThirdPartySale is the ventaTercero block
type ThirdPartySale struct {
	NIT  string `json:"nit"`
	Name string `json:"nombre"`
}

// Tribute is one entry of the resumen tax breakdown
type Tribute struct {
	Code        string  `json:"codigo"`
	Description string  `json:"descripcion"`
	Value       float64 `json:"valor"`
}

// Payment is one pagos entry
type Payment struct {
	Code      string  `json:"codigo"`
	Amount    float64 `json:"montoPago"`
	Reference *string `json:"referencia"`
	Term      *string `json:"plazo"`
	Period    *int    `json:"periodo"`
}

// Extension is the extension block of 01 and 03
type Extension struct {
	DeliveredBy         *string `json:"nombEntrega"`
	DeliveredByDocument *string `json:"docuEntrega"`
	ReceivedBy          *string `json:"nombRecibe"`
	ReceivedByDocument  *string `json:"docuRecibe"`
	Observations        *string `json:"observaciones"`
	VehiclePlate        *string `json:"placaVehiculo"`
}

// NoteExtension is the extension block of 05 and 06 (no vehicle plate)
type NoteExtension struct {
	DeliveredBy         *string `json:"nombEntrega"`
	DeliveredByDocument *string `json:"docuEntrega"`
	ReceivedBy          *string `json:"nombRecibe"`
	ReceivedByDocument  *string `json:"docuRecibe"`
	Observations        *string `json:"observaciones"`
}

// Appendix is one apendice entry
type Appendix struct {
	Field string `json:"campo"`
	Label string `json:"etiqueta"`
	Value string `json:"valor"`
}
