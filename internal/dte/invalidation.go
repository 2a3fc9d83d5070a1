package dte

// Invalidation is the invalidation event (anulacion) document
type Invalidation struct {
	Identification InvalidationIdentification `json:"identificacion"`
	Issuer         InvalidationIssuer         `json:"emisor"`
	Document       InvalidatedDocument        `json:"documento"`
	Motive         InvalidationMotive         `json:"motivo"`
}

// InvalidationIdentification identifies the event itself
type InvalidationIdentification struct {
	Version        int    `json:"version"`
	Environment    string `json:"ambiente"`
	GenerationCode string `json:"codigoGeneracion"`
	Date           string `json:"fecAnula"`
	Time           string `json:"horAnula"`
}

// InvalidationIssuer is the emisor of the event
type InvalidationIssuer struct {
	NIT                 string  `json:"nit"`
	Name                string  `json:"nombre"`
	EstablishmentType   string  `json:"tipoEstablecimiento"`
	EstablishmentName   *string `json:"nomEstablecimiento"`
	EstablishmentCodeMH *string `json:"codEstableMH"`
	EstablishmentCode   *string `json:"codEstable"`
	POSCodeMH           *string `json:"codPuntoVentaMH"`
	POSCode             *string `json:"codPuntoVenta"`
	Phone               *string `json:"telefono"`
	Email               string  `json:"correo"`
}

// InvalidatedDocument references the document being invalidated
type InvalidatedDocument struct {
	DocumentType      string  `json:"tipoDte"`
	GenerationCode    string  `json:"codigoGeneracion"`
	ReceivedSeal      string  `json:"selloRecibido"`
	ControlNumber     string  `json:"numeroControl"`
	IssueDate         string  `json:"fecEmi"`
	TaxAmount         float64 `json:"montoIva"`
	ReplacementCode   *string `json:"codigoGeneracionR"`
	ReceiverDocType   *string `json:"tipoDocumento"`
	ReceiverDocNumber *string `json:"numDocumento"`
	ReceiverName      *string `json:"nombre"`
	ReceiverPhone     *string `json:"telefono"`
	ReceiverEmail     *string `json:"correo"`
}

// InvalidationMotive is the motivo block
type InvalidationMotive struct {
	Type                 int     `json:"tipoAnulacion"`
	Reason               *string `json:"motivoAnulacion"`
	ResponsibleName      string  `json:"nombreResponsable"`
	ResponsibleDocType   string  `json:"tipDocResponsable"`
	ResponsibleDocNumber string  `json:"numDocResponsable"`
	RequesterName        string  `json:"nombreSolicita"`
	RequesterDocType     string  `json:"tipDocSolicita"`
	RequesterDocNumber   string  `json:"numDocSolicita"`
}
