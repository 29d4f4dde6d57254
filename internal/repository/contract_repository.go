package repository

import (
	"context"
	"math"

	"gorm.io/gorm"

	"github.com/nurpe/contracts-panel/internal/model"
)

type ContractRepository struct {
	db *gorm.DB
}

func NewContractRepository(db *gorm.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

// ListPage returns the contracts of a 1-based page ordered by id. A page past
// the end, or one whose offset does not fit an int, yields an empty slice.
func (r *ContractRepository) ListPage(ctx context.Context, page, size int) ([]model.Contract, error) {
	offset, ok := pageOffset(page, size)
	if !ok {
		return []model.Contract{}, nil
	}
	contracts := make([]model.Contract, 0, size)
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			id, nr_inst, nr_agencia, cd_client, nm_client, nr_cpf_cnpj,
			nr_contrat, dt_contrato, qt_prestacoes, vl_total,
			cd_produto, ds_produto, cd_carteira, ds_carteira, nr_proposta,
			nr_presta, tp_presta, nr_seq_pre, dt_vct_pre,
			vl_presta, vl_mora, vl_multa, vl_out_acr, vl_iof, vl_descon, vl_atual,
			id_situac, id_sit_ven
		FROM contracts
		ORDER BY id ASC
		LIMIT ? OFFSET ?
	`, size, offset).Scan(&contracts).Error
	if err != nil {
		return nil, err
	}
	return contracts, nil
}

func pageOffset(page, size int) (int, bool) {
	if page < 1 || size < 1 || page-1 > math.MaxInt/size {
		return 0, false
	}
	return (page - 1) * size, true
}

func (r *ContractRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Raw(`SELECT COUNT(*) FROM contracts`).Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *ContractRepository) Get(ctx context.Context, id int64) (*model.Contract, error) {
	var contract model.Contract
	if err := r.db.WithContext(ctx).Raw(`
		SELECT * FROM contracts WHERE id = ? LIMIT 1
	`, id).Scan(&contract).Error; err != nil {
		return nil, err
	}
	if contract.ID == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &contract, nil
}
