package dte

// Invoice is the Factura (01) document
type Invoice struct {
	Identification   Identification    `json:"identificacion"`
	RelatedDocuments []RelatedDocument `json:"documentoRelacionado"`
	Issuer           Issuer            `json:"emisor"`
	Receiver         *InvoiceReceiver  `json:"receptor"`
	OtherDocuments   []OtherDocument   `json:"otrosDocumentos"`
	ThirdPartySale   *ThirdPartySale   `json:"ventaTercero"`
	Body             []InvoiceItem     `json:"cuerpoDocumento"`
	Summary          InvoiceSummary    `json:"resumen"`
	Extension        *Extension        `json:"extension"`
	Appendix         []Appendix        `json:"apendice"`
}

// InvoiceReceiver is the final consumer; every field may be null
type InvoiceReceiver struct {
	DocumentType        *string  `json:"tipoDocumento"`
	DocumentNumber      *string  `json:"numDocumento"`
	NRC                 *string  `json:"nrc"`
	Name                *string  `json:"nombre"`
	ActivityCode        *string  `json:"codActividad"`
	ActivityDescription *string  `json:"descActividad"`
	Address             *Address `json:"direccion"`
	Phone               *string  `json:"telefono"`
	Email               *string  `json:"correo"`
}

// InvoiceItem is one cuerpoDocumento line of a Factura. Amounts include IVA.
type InvoiceItem struct {
	Number          int      `json:"numItem"`
	ItemType        int      `json:"tipoItem"`
	RelatedDocument *string  `json:"numeroDocumento"`
	Quantity        float64  `json:"cantidad"`
	Code            *string  `json:"codigo"`
	TributeCode     *string  `json:"codTributo"`
	UnitOfMeasure   int      `json:"uniMedida"`
	Description     string   `json:"descripcion"`
	UnitPrice       float64  `json:"precioUni"`
	Discount        float64  `json:"montoDescu"`
	NotSubjectSale  float64  `json:"ventaNoSuj"`
	ExemptSale      float64  `json:"ventaExenta"`
	TaxedSale       float64  `json:"ventaGravada"`
	Tributes        []string `json:"tributos"`
	SuggestedPrice  float64  `json:"psv"`
	NotTaxed        float64  `json:"noGravado"`
	ItemIVA         float64  `json:"ivaItem"`
}

// InvoiceSummary is the resumen of a Factura
type InvoiceSummary struct {
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
	IVAWithheld             float64   `json:"ivaRete1"`
	IncomeWithheld          float64   `json:"reteRenta"`
	TotalOperation          float64   `json:"montoTotalOperacion"`
	TotalNotTaxed           float64   `json:"totalNoGravado"`
	TotalPayable            float64   `json:"totalPagar"`
	AmountInWords           string    `json:"totalLetras"`
	TotalIVA                float64   `json:"totalIva"`
	BalanceInFavor          float64   `json:"saldoFavor"`
	OperationCondition      int       `json:"condicionOperacion"`
	Payments                []Payment `json:"pagos"`
	ElectronicPaymentNumber *string   `json:"numPagoElectronico"`
}
