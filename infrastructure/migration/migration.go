package migration

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/vfg2006/analytics-dashboard-api/infrastructure/database/postgres"
)

//go:embed schema.sql
var Schema string

// Apply cria as tabelas e índices; pode ser executado mais de uma vez
func Apply(ctx context.Context, conn postgres.Queryer) error {
	if _, err := conn.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("erro ao aplicar o schema: %w", err)
	}

	return nil
}
