package model

// Contract is one installment row of a financial contract as served by the
// contracts API. Optional values are pointers so that a missing value stays
// distinguishable from zero.
type Contract struct {
	ID           int64    `json:"id" gorm:"column:id;primaryKey"`
	NrInst       int64    `json:"nrInst" gorm:"column:nr_inst"`
	NrAgencia    int64    `json:"nrAgencia" gorm:"column:nr_agencia"`
	CdClient     int64    `json:"cdClient" gorm:"column:cd_client"`
	NmClient     string   `json:"nmClient" gorm:"column:nm_client"`
	NrCpfCnpj    string   `json:"nrCpfCnpj" gorm:"column:nr_cpf_cnpj"`
	NrContrat    int64    `json:"nrContrat" gorm:"column:nr_contrat"`
	DtContrato   *string  `json:"dtContrato" gorm:"column:dt_contrato"`
	QtPrestacoes int      `json:"qtPrestacoes" gorm:"column:qt_prestacoes"`
	VlTotal      float64  `json:"vlTotal" gorm:"column:vl_total"`
	CdProduto    int64    `json:"cdProduto" gorm:"column:cd_produto"`
	DsProduto    string   `json:"dsProduto" gorm:"column:ds_produto"`
	CdCarteira   int64    `json:"cdCarteira" gorm:"column:cd_carteira"`
	DsCarteira   string   `json:"dsCarteira" gorm:"column:ds_carteira"`
	NrProposta   int64    `json:"nrProposta" gorm:"column:nr_proposta"`
	NrPresta     int      `json:"nrPresta" gorm:"column:nr_presta"`
	TpPresta     string   `json:"tpPresta" gorm:"column:tp_presta"`
	NrSeqPre     int      `json:"nrSeqPre" gorm:"column:nr_seq_pre"`
	DtVctPre     *string  `json:"dtVctPre" gorm:"column:dt_vct_pre"`
	VlPresta     *float64 `json:"vlPresta" gorm:"column:vl_presta"`
	VlMora       *float64 `json:"vlMora" gorm:"column:vl_mora"`
	VlMulta      *float64 `json:"vlMulta" gorm:"column:vl_multa"`
	VlOutAcr     *float64 `json:"vlOutAcr" gorm:"column:vl_out_acr"`
	VlIof        *float64 `json:"vlIof" gorm:"column:vl_iof"`
	VlDescon     *float64 `json:"vlDescon" gorm:"column:vl_descon"`
	VlAtual      *float64 `json:"vlAtual" gorm:"column:vl_atual"`
	IDSituac     string   `json:"idSituac" gorm:"column:id_situac"`
	IDSitVen     string   `json:"idSitVen" gorm:"column:id_sit_ven"`
}

func (Contract) TableName() string {
	return "contracts"
}

// CheckedContract is a contract annotated by the consistency pass that runs
// at load time.
type CheckedContract struct {
	Contract
	Issues []string `json:"issues,omitempty"`
}

func (c CheckedContract) Consistent() bool {
	return len(c.Issues) == 0
}

// ContractPage is the body of GET /api/contracts.
type ContractPage struct {
	Page  int        `json:"page"`
	Size  int        `json:"size"`
	Total int64      `json:"total"`
	Data  []Contract `json:"data"`
}
