package dte

// NoteIssuer is the emisor of credit and debit notes. Notes carry no
// establishment or point-of-sale codes.
type NoteIssuer struct {
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
}

// NoteItem is one cuerpoDocumento line of a credit or debit note
type NoteItem struct {
	Number          int      `json:"numItem"`
	ItemType        int      `json:"tipoItem"`
	RelatedDocument *string  `json:"numeroDocumento"`
	Code            *string  `json:"codigo"`
	TributeCode     *string  `json:"codTributo"`
	Description     string   `json:"descripcion"`
	Quantity        float64  `json:"cantidad"`
	UnitOfMeasure   int      `json:"uniMedida"`
	UnitPrice       float64  `json:"precioUni"`
	Discount        float64  `json:"montoDescu"`
	NotSubjectSale  float64  `json:"ventaNoSuj"`
	ExemptSale      float64  `json:"ventaExenta"`
	TaxedSale       float64  `json:"ventaGravada"`
	Tributes        []string `json:"tributos"`
}

// NoteSummary is the resumen of a credit note
type NoteSummary struct {
	TotalNotSubject    float64   `json:"totalNoSuj"`
	TotalExempt        float64   `json:"totalExenta"`
	TotalTaxed         float64   `json:"totalGravada"`
	SalesSubtotal      float64   `json:"subTotalVentas"`
	NotSubjectDiscount float64   `json:"descuNoSuj"`
	ExemptDiscount     float64   `json:"descuExenta"`
	TaxedDiscount      float64   `json:"descuGravada"`
	TotalDiscount      float64   `json:"totalDescu"`
	Tributes           []Tribute `json:"tributos"`
	Subtotal           float64   `json:"subTotal"`
	IVAPerceived       float64   `json:"ivaPerci1"`
	IVAWithheld        float64   `json:"ivaRete1"`
	IncomeWithheld     float64   `json:"reteRenta"`
	TotalOperation     float64   `json:"montoTotalOperacion"`
	AmountInWords      string    `json:"totalLetras"`
	OperationCondition int       `json:"condicionOperacion"`
}

// DebitNoteSummary adds the electronic payment number to the note summary
type DebitNoteSummary struct {
	NoteSummary
	ElectronicPaymentNumber *string `json:"numPagoElectronico"`
}

// CreditNote is the Nota de Credito (05) document
type CreditNote struct {
	Identification   Identification    `json:"identificacion"`
	RelatedDocuments []RelatedDocument `json:"documentoRelacionado"`
	Issuer           NoteIssuer        `json:"emisor"`
	Receiver         TaxCreditReceiver `json:"receptor"`
	ThirdPartySale   *ThirdPartySale   `json:"ventaTercero"`
	Body             []NoteItem        `json:"cuerpoDocumento"`
	Summary          NoteSummary       `json:"resumen"`
	Extension        *NoteExtension    `json:"extension"`
	Appendix         []Appendix        `json:"apendice"`
}

// DebitNote is the Nota de Debito (06) document
type DebitNote struct {
	Identification   Identification    `json:"identificacion"`
	RelatedDocuments []RelatedDocument `json:"documentoRelacionado"`
	Issuer           NoteIssuer        `json:"emisor"`
	Receiver         TaxCreditReceiver `json:"receptor"`
	ThirdPartySale   *ThirdPartySale   `json:"ventaTercero"`
	Body             []NoteItem        `json:"cuerpoDocumento"`
	Summary          DebitNoteSummary  `json:"resumen"`
	Extension        *NoteExtension    `json:"extension"`
	Appendix         []Appendix        `json:"apendice"`
}
