package dte

// TaxCredit is the Comprobante de Credito Fiscal (03) document
type TaxCredit struct {
	Identification   Identification    `json:"identificacion"`
	RelatedDocuments []RelatedDocument `json:"documentoRelacionado"`
	Issuer           Issuer            `json:"emisor"`
	Receiver         TaxCreditReceiver `json:"receptor"`
	OtherDocuments   []OtherDocument   `json:"otrosDocumentos"`
	ThirdPartySale   *ThirdPartySale   `json:"ventaTercero"`
	Body             []TaxCreditItem   `json:"cuerpoDocumento"`
	Summary          TaxCreditSummary  `json:"resumen"`
	Extension        *Extension        `json:"extension"`
	Appendix         []Appendix        `json:"apendice"`
}

// TaxCreditItem is one cuerpoDocumento line of a CCF. Amounts exclude IVA.
type TaxCreditItem struct {
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
	SuggestedPrice  float64  `json:"psv"`
	NotTaxed        float64  `json:"noGravado"`
}

// TaxCreditSummary is the resumen of a CCF
type TaxCreditSummary struct {
	TotalNotSubject         float64   `json:"totalNoSuj"`
	TotalExempt             float64   `json:"totalExenta"`
	TotalTaxed              float64   `json:"totalGravada"`
	SalesSubtotal           float64   `json:"subTotalVentas"`
	NotSubjectDiscount      float64   `json:"descuNoSuj"`
	ExemptDiscount          float64   `json:"descuExenta"`
	TaxedDiscount           float64   `json:"descuGravada"`
	DiscountPercentage      float64   `json:"porcentajeDescuento"`
	TotalDiscount           float64   `json:"totalDescu"`
	Tributes                []Tribute `json:"tributos"`
	Subtotal                float64   `json:"subTotal"`
	IVAPerceived            float64   `json:"ivaPerci1"`
	IVAWithheld             float64   `json:"ivaRete1"`
	IncomeWithheld          float64   `json:"reteRenta"`
	TotalOperation          float64   `json:"montoTotalOperacion"`
	TotalNotTaxed           float64   `json:"totalNoGravado"`
	TotalPayable            float64   `json:"totalPagar"`
	AmountInWords           string    `json:"totalLetras"`
	BalanceInFavor          float64   `json:"saldoFavor"`
	OperationCondition      int       `json:"condicionOperacion"`
	Payments                []Payment `json:"pagos"`
	ElectronicPaymentNumber *string   `json:"numPagoElectronico"`
}
