package dte

// ExcludedSubjectIssuer is the emisor of a Factura de Sujeto Excluido
type ExcludedSubjectIssuer struct {
	NIT                 string  `json:"nit"`
	NRC                 string  `json:"nrc"`
	Name                string  `json:"nombre"`
	ActivityCode        string  `json:"codActividad"`
	ActivityDescription string  `json:"descActividad"`
	Address             Address `json:"direccion"`
	Phone               string  `json:"telefono"`
	EstablishmentCodeMH *string `json:"codEstableMH"`
	EstablishmentCode   *string `json:"codEstable"`
	POSCodeMH           *string `json:"codPuntoVentaMH"`
	POSCode             *string `json:"codPuntoVenta"`
	Email               string  `json:"correo"`
}

// ExcludedSubject is the seller outside the IVA regime
type ExcludedSubject struct {
	DocumentType        *string  `json:"tipoDocumento"`
	DocumentNumber      string   `json:"numDocumento"`
	Name                string   `json:"nombre"`
	ActivityCode        *string  `json:"codActividad"`
	ActivityDescription *string  `json:"descActividad"`
	Address             *Address `json:"direccion"`
	Phone               *string  `json:"telefono"`
	Email               *string  `json:"correo"`
}

// ExcludedSubjectItem is one purchase line
type ExcludedSubjectItem struct {
	Number        int     `json:"numItem"`
	ItemType      int     `json:"tipoItem"`
	Quantity      float64 `json:"cantidad"`
	Code          *string `json:"codigo"`
	UnitOfMeasure int     `json:"uniMedida"`
	Description   string  `json:"descripcion"`
	UnitPrice     float64 `json:"precioUni"`
	Discount      float64 `json:"montoDescu"`
	Purchase      float64 `json:"compra"`
}

// ExcludedSubjectSummary is the resumen of a Factura de Sujeto Excluido
type ExcludedSubjectSummary struct {
	TotalPurchase      float64   `json:"totalCompra"`
	Discount           float64   `json:"descu"`
	TotalDiscount      float64   `json:"totalDescu"`
	Subtotal           float64   `json:"subTotal"`
	IVAWithheld        float64   `json:"ivaRete1"`
	IncomeWithheld     float64   `json:"reteRenta"`
	TotalPayable       float64   `json:"totalPagar"`
	AmountInWords      string    `json:"totalLetras"`
	OperationCondition int       `json:"condicionOperacion"`
	Payments           []Payment `json:"pagos"`
	Observations       *string   `json:"observaciones"`
}

// ExcludedSubjectInvoice is the Factura de Sujeto Excluido (14) document
type ExcludedSubjectInvoice struct {
	Identification  Identification         `json:"identificacion"`
	Issuer          ExcludedSubjectIssuer  `json:"emisor"`
	ExcludedSubject ExcludedSubject        `json:"sujetoExcluido"`
	Body            []ExcludedSubjectItem  `json:"cuerpoDocumento"`
	Summary         ExcludedSubjectSummary `json:"resumen"`
	Appendix        []Appendix             `json:"apendice"`
}
