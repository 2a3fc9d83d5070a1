package dte

// ExportIdentification is the identificacion of an export invoice.
// The schema spells the contingency reason key "motivoContigencia".
type ExportIdentification struct {
	Version           int     `json:"version"`
	Environment       string  `json:"ambiente"`
	DocumentType      string  `json:"tipoDte"`
	ControlNumber     string  `json:"numeroControl"`
	GenerationCode    string  `json:"codigoGeneracion"`
	ModelType         int     `json:"tipoModelo"`
	OperationType     int     `json:"tipoOperacion"`
	ContingencyType   *int    `json:"tipoContingencia"`
	ContingencyReason *string `json:"motivoContigencia"`
	IssueDate         string  `json:"fecEmi"`
	IssueTime         string  `json:"horEmi"`
	Currency          string  `json:"tipoMoneda"`
}

// ExportIssuer is the emisor of an export invoice
type ExportIssuer struct {
	Issuer
	ExportItemType  int     `json:"tipoItemExpor"`
	FiscalEnclosure *string `json:"recintoFiscal"`
	Regime          *string `json:"regimen"`
}

// ExportReceiver is a foreign receiver
type ExportReceiver struct {
	Name                string  `json:"nombre"`
	DocumentType        *string `json:"tipoDocumento"`
	DocumentNumber      *string `json:"numDocumento"`
	TradeName           *string `json:"nombreComercial"`
	CountryCode         *string `json:"codPais"`
	CountryName         *string `json:"nombrePais"`
	Complement          *string `json:"complemento"`
	PersonType          *int    `json:"tipoPersona"`
	ActivityDescription *string `json:"descActividad"`
	Phone               *string `json:"telefono"`
	Email               *string `json:"correo"`
}

// ExportItem is one cuerpoDocumento line of an export invoice
type ExportItem struct {
	Number         int     `json:"numItem"`
	Quantity       float64 `json:"cantidad"`
	Code           *string `json:"codigo"`
	UnitOfMeasure  int     `json:"uniMedida"`
	Description    string  `json:"descripcion"`
	UnitPrice      float64 `json:"precioUni"`
	Discount       float64 `json:"montoDescu"`
	NotSubjectSale float64 `json:"ventaNoSuj"`
	ExemptSale     float64 `json:"ventaExenta"`
	NotTaxed       float64 `json:"noGravado"`
}

// ExportSummary is the resumen of an export invoice
type ExportSummary struct {
	TotalNotSubject         float64   `json:"totalNoSuj"`
	TotalExempt             float64   `json:"totalExenta"`
	SalesSubtotal           float64   `json:"subTotalVentas"`
	Discount                float64   `json:"descuento"`
	DiscountPercentage      float64   `json:"porcentajeDescuento"`
	TotalDiscount           float64   `json:"totalDescu"`
	Insurance               float64   `json:"seguro"`
	Freight                 float64   `json:"flete"`
	TotalOperation          float64   `json:"montoTotalOperacion"`
	TotalNotTaxed           float64   `json:"totalNoGravado"`
	TotalPayable            float64   `json:"totalPagar"`
	AmountInWords           string    `json:"totalLetras"`
	OperationCondition      int       `json:"condicionOperacion"`
	Payments                []Payment `json:"pagos"`
	IncotermsCode           *string   `json:"codIncoterms"`
	IncotermsDescription    *string   `json:"descIncoterms"`
	Observations            *string   `json:"observaciones"`
	ElectronicPaymentNumber *string   `json:"numPagoElectronico"`
}

// ExportInvoice is the Factura de Exportacion (11) document
type ExportInvoice struct {
	Identification ExportIdentification `json:"identificacion"`
	Issuer         ExportIssuer         `json:"emisor"`
	Receiver       ExportReceiver       `json:"receptor"`
	OtherDocuments []OtherDocument      `json:"otrosDocumentos"`
	ThirdPartySale *ThirdPartySale      `json:"ventaTercero"`
	Body           []ExportItem         `json:"cuerpoDocumento"`
	Summary        ExportSummary        `json:"resumen"`
	Appendix       []Appendix           `json:"apendice"`
}
