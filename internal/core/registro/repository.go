package registro

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists registros in Postgres.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const registroColumns = `id, nit, empresa, ciudad, cliente, celular, correo,
	tipo_cliente, concepto, medio_contacto, asignado_a, linea_venta,
	ticket, estado_automatizacion, ultimo_error, fecha_creacion, fecha_actualizacion`

func scanRegistro(row pgx.Row) (*Registro, error) {
	var r Registro
	err := row.Scan(
		&r.ID, &r.Nit, &r.Empresa, &r.Ciudad, &r.Cliente, &r.Celular, &r.Correo,
		&r.TipoCliente, &r.Concepto, &r.MedioContacto, &r.AsignadoA, &r.LineaVenta,
		&r.Ticket, &r.Estado, &r.UltimoError, &r.FechaCreacion, &r.FechaActualizacion,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Create inserts a new registro in PENDIENTE state and assigns its ID.
func (repo *Repository) Create(ctx context.Context, r *Registro) error {
	r.Estado = EstadoPendiente
	r.UltimoError = nil
	row := repo.pool.QueryRow(ctx, `
		INSERT INTO registros (
			nit, empresa, ciudad, cliente, celular, correo,
			tipo_cliente, concepto, medio_contacto, asignado_a, linea_venta,
			estado_automatizacion
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING id, fecha_creacion, fecha_actualizacion`,
		r.Nit, r.Empresa, r.Ciudad, r.Cliente, r.Celular, r.Correo,
		r.TipoCliente, r.Concepto, r.MedioContacto, r.AsignadoA, r.LineaVenta,
		r.Estado,
	)
	return row.Scan(&r.ID, &r.FechaCreacion, &r.FechaActualizacion)
}

func (repo *Repository) GetByID(ctx context.Context, id int64) (*Registro, error) {
	row := repo.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM registros WHERE id = $1`, registroColumns), id)
	r, err := scanRegistro(row)
	if err != nil {
		return nil, fmt.Errorf("registro %d: %w", id, err)
	}
	return r, nil
}

// SetEstado writes a status transition. ultimoError must be nil except when
// the new state is ERROR.
func (repo *Repository) SetEstado(ctx context.Context, id int64, estado Estado, ultimoError *string) error {
	tag, err := repo.pool.Exec(ctx, `
		UPDATE registros
		SET estado_automatizacion = $2, ultimo_error = $3, fecha_actualizacion = now()
		WHERE id = $1`,
		id, estado, ultimoError,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("registro %d: not found", id)
	}
	return nil
}

// SetTicket records the portal ticket. The ticket is written once and left
// alone afterwards; the status is not touched.
func (repo *Repository) SetTicket(ctx context.Context, id int64, ticket string) error {
	if ticket == "" || id <= 0 {
		return nil
	}
	_, err := repo.pool.Exec(ctx, `
		UPDATE registros
		SET ticket = $2, fecha_actualizacion = now()
		WHERE id = $1 AND ticket = ''`,
		id, ticket,
	)
	return err
}
