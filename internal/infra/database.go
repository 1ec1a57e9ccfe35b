package infra

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/viktorhino/gestor-cupos-sub001/internal/model"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches that
// GORM cannot express (sequences, partial indexes).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations applies the schema. Also used by integration tests against a
// throwaway database.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Cliente{},
		&model.ReferenciaTarjeta{},
		&model.TipoVolante{},
		&model.Pedido{},
		&model.PedidoItem{},
		&model.Terminacion{},
		&model.Cupo{},
		&model.CupoAsignacion{},
		&model.Pago{},
		&model.PlantillaMensaje{},
		&model.MensajeWhatsapp{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot express.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// The consecutivo comes from a sequence so concurrent creations never
		// collide; nextval is called inside the creation tx.
		{"pedidos consecutivo sequence",
			`CREATE SEQUENCE IF NOT EXISTS pedidos_consecutivo_seq START 1`},

		// Partial index backing the "current pending message" query.
		{"pending message partial index", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_mensajes_pendientes') THEN
    CREATE INDEX idx_mensajes_pendientes
        ON mensaje_whatsapps (pedido_id, created_at DESC)
        WHERE copiado = false AND reemplazado = false;
  END IF;
END $$`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
