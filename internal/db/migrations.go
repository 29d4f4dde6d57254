package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE TABLE IF NOT EXISTS contracts (
		id BIGSERIAL PRIMARY KEY,
		nr_inst BIGINT NOT NULL DEFAULT 0,
		nr_agencia BIGINT NOT NULL DEFAULT 0,
		cd_client BIGINT NOT NULL DEFAULT 0,
		nm_client VARCHAR(255) NOT NULL DEFAULT '',
		nr_cpf_cnpj VARCHAR(18) NOT NULL DEFAULT '',
		nr_contrat BIGINT NOT NULL DEFAULT 0,
		dt_contrato VARCHAR(32),
		qt_prestacoes INTEGER NOT NULL DEFAULT 0,
		vl_total NUMERIC(18,2) NOT NULL DEFAULT 0,
		cd_produto BIGINT NOT NULL DEFAULT 0,
		ds_produto VARCHAR(255) NOT NULL DEFAULT '',
		cd_carteira BIGINT NOT NULL DEFAULT 0,
		ds_carteira VARCHAR(255) NOT NULL DEFAULT '',
		nr_proposta BIGINT NOT NULL DEFAULT 0,
		nr_presta INTEGER NOT NULL DEFAULT 0,
		tp_presta VARCHAR(32) NOT NULL DEFAULT '',
		nr_seq_pre INTEGER NOT NULL DEFAULT 0,
		dt_vct_pre VARCHAR(32),
		vl_presta NUMERIC(18,2),
		vl_mora NUMERIC(18,2),
		vl_multa NUMERIC(18,2),
		vl_out_acr NUMERIC(18,2),
		vl_iof NUMERIC(18,2),
		vl_descon NUMERIC(18,2),
		vl_atual NUMERIC(18,2),
		id_situac VARCHAR(16) NOT NULL DEFAULT '',
		id_sit_ven VARCHAR(16) NOT NULL DEFAULT ''
	);`,
	`CREATE INDEX IF NOT EXISTS idx_contracts_nr_contrat ON contracts (nr_contrat);`,
	`CREATE INDEX IF NOT EXISTS idx_contracts_nr_cpf_cnpj ON contracts (nr_cpf_cnpj);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
