package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/sirizagaria/editorial-api/internal/domain"
	"github.com/sirizagaria/editorial-api/internal/domain/entity"
	"github.com/sirizagaria/editorial-api/internal/domain/repository"
)

var _ repository.DTERepository = (*DTERepo)(nil)

// DTERepo implementación de DTERepository. Las secciones estructuradas del
// documento (detalle, transporte, referencias, el DTE canónico completo y la
// respuesta del SII) se guardan en columnas JSONB; pgx las codifica y
// decodifica directo contra los structs del dominio.
type DTERepo struct {
	q Querier
}

// NewDTERepository construye el adaptador. Pasar pool o tx (Querier).
func NewDTERepository(q Querier) *DTERepo {
	return &DTERepo{q: q}
}

const dteSelect = `
	SELECT d.id, d.uuid, d.tipo_dte, d.folio, d.status,
	       d.rut_emisor, d.rut_receptor,
	       COALESCE(d.customer_id, ''), COALESCE(d.invoice_id, ''), COALESCE(d.shipping_id, ''),
	       d.fecha_emision, d.fecha_vencimiento,
	       d.mnt_neto, d.mnt_exe, d.tasa_iva, d.iva, d.mnt_total, d.forma_pago,
	       d.detalle, d.transporte, d.referencia, d.dte_json, d.sii_response,
	       COALESCE(d.sii_error, ''), d.processed_at, COALESCE(d.created_by, ''),
	       d.created_at, d.updated_at,
	       COALESCE(c.name, ''), COALESCE(i.invoice_number, ''), COALESCE(s.guia_number, '')
	FROM dte_documents d
	LEFT JOIN customers c ON c.id = d.customer_id
	LEFT JOIN invoices i ON i.id = d.invoice_id
	LEFT JOIN shippings s ON s.id = d.shipping_id`

// Create persiste un documento recién generado (estado pending, folio 0).
func (r *DTERepo) Create(doc *entity.DTEDocument) error {
	query := `
		INSERT INTO dte_documents (
			id, uuid, tipo_dte, folio, status, rut_emisor, rut_receptor,
			customer_id, invoice_id, shipping_id, fecha_emision, fecha_vencimiento,
			mnt_neto, mnt_exe, tasa_iva, iva, mnt_total, forma_pago,
			detalle, transporte, referencia, dte_json, sii_response,
			sii_error, processed_at, created_by, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28
		)`
	_, err := r.q.Exec(context.Background(), query,
		doc.ID, doc.UUID, doc.TipoDTE, doc.Folio, doc.Status,
		doc.RUTEmisor, doc.RUTReceptor,
		nullIfEmpty(doc.CustomerID), nullIfEmpty(doc.InvoiceID), nullIfEmpty(doc.ShippingID),
		doc.FechaEmision, doc.FechaVencimiento,
		doc.MntNeto, doc.MntExe, doc.TasaIVA, doc.IVA, doc.MntTotal, doc.FormaPago,
		doc.Detalle, doc.Transporte, doc.Referencia, doc.DteJSON, doc.SiiResponse,
		nullIfEmpty(doc.SiiError), doc.ProcessedAt, nullIfEmpty(doc.CreatedBy),
		doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert dte: %w", err)
	}
	return nil
}

// GetByID obtiene un documento por su ID de registro.
func (r *DTERepo) GetByID(id string) (*entity.DTEDocument, error) {
	return r.getOne(dteSelect+` WHERE d.id = $1`, id)
}

// GetByUUID obtiene un documento por su UUID interno.
func (r *DTERepo) GetByUUID(uuid string) (*entity.DTEDocument, error) {
	return r.getOne(dteSelect+` WHERE d.uuid = $1`, uuid)
}

// GetByFolio obtiene un documento por la clave natural (emisor, tipo, folio).
func (r *DTERepo) GetByFolio(rutEmisor string, tipoDTE, folio int) (*entity.DTEDocument, error) {
	return r.getOne(dteSelect+` WHERE d.rut_emisor = $1 AND d.tipo_dte = $2 AND d.folio = $3`,
		rutEmisor, tipoDTE, folio)
}

func (r *DTERepo) getOne(query string, args ...any) (*entity.DTEDocument, error) {
	row := r.q.QueryRow(context.Background(), query, args...)
	doc, err := scanDTE(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get dte: %w", err)
	}
	return doc, nil
}

// List devuelve una página de documentos, del más reciente al más antiguo.
func (r *DTERepo) List(filter entity.DTEFilter, limit, offset int) ([]*entity.DTEDocument, error) {
	where, args := buildFilter(filter)
	args = append(args, limit, offset)
	query := dteSelect + where +
		` ORDER BY d.created_at DESC LIMIT $` + strconv.Itoa(len(args)-1) +
		` OFFSET $` + strconv.Itoa(len(args))

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list dte: %w", err)
	}
	defer rows.Close()

	var list []*entity.DTEDocument
	for rows.Next() {
		doc, err := scanDTE(rows)
		if err != nil {
			return nil, fmt.Errorf("scan dte: %w", err)
		}
		list = append(list, doc)
	}
	return list, rows.Err()
}

// Count cuenta los documentos que calzan con el filtro.
func (r *DTERepo) Count(filter entity.DTEFilter) (int, error) {
	where, args := buildFilter(filter)
	var count int
	err := r.q.QueryRow(context.Background(), `SELECT COUNT(*) FROM dte_documents d`+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count dte: %w", err)
	}
	return count, nil
}

// UpdateStatus persiste el resultado del envío: estado, folio, respuesta o
// error del SII y marca de procesamiento. El resto del documento es inmutable.
func (r *DTERepo) UpdateStatus(doc *entity.DTEDocument) error {
	query := `
		UPDATE dte_documents
		SET status = $2, folio = $3, sii_response = $4, sii_error = $5,
		    processed_at = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		doc.ID, doc.Status, doc.Folio, doc.SiiResponse, nullIfEmpty(doc.SiiError),
		doc.ProcessedAt, doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update dte status: %w", err)
	}
	return nil
}

// Stats agrega conteos por tipo y estado, y sumas de montos e IVA.
func (r *DTERepo) Stats() (*entity.DTEStats, error) {
	ctx := context.Background()
	stats := &entity.DTEStats{
		ByTipoDTE: map[int]int{},
		ByStatus:  map[string]int{},
	}

	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(mnt_total), 0), COALESCE(SUM(iva), 0)
		FROM dte_documents`).Scan(&stats.TotalDocuments, &stats.TotalAmount, &stats.TotalIVA)
	if err != nil {
		return nil, fmt.Errorf("stats totales: %w", err)
	}

	rows, err := r.q.Query(ctx, `SELECT tipo_dte, COUNT(*) FROM dte_documents GROUP BY tipo_dte`)
	if err != nil {
		return nil, fmt.Errorf("stats por tipo: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var tipo, count int
		if err := rows.Scan(&tipo, &count); err != nil {
			return nil, fmt.Errorf("scan stats por tipo: %w", err)
		}
		stats.ByTipoDTE[tipo] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = r.q.Query(ctx, `SELECT status, COUNT(*) FROM dte_documents GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("stats por estado: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan stats por estado: %w", err)
		}
		stats.ByStatus[status] = count
	}
	return stats, rows.Err()
}

func buildFilter(filter entity.DTEFilter) (string, []any) {
	var conds []string
	var args []any
	if filter.TipoDTE != 0 {
		args = append(args, filter.TipoDTE)
		conds = append(conds, fmt.Sprintf("d.tipo_dte = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("d.status = $%d", len(args)))
	}
	if filter.CustomerID != "" {
		args = append(args, filter.CustomerID)
		conds = append(conds, fmt.Sprintf("d.customer_id = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanDTE(row pgx.Row) (*entity.DTEDocument, error) {
	var d entity.DTEDocument
	err := row.Scan(
		&d.ID, &d.UUID, &d.TipoDTE, &d.Folio, &d.Status,
		&d.RUTEmisor, &d.RUTReceptor,
		&d.CustomerID, &d.InvoiceID, &d.ShippingID,
		&d.FechaEmision, &d.FechaVencimiento,
		&d.MntNeto, &d.MntExe, &d.TasaIVA, &d.IVA, &d.MntTotal, &d.FormaPago,
		&d.Detalle, &d.Transporte, &d.Referencia, &d.DteJSON, &d.SiiResponse,
		&d.SiiError, &d.ProcessedAt, &d.CreatedBy,
		&d.CreatedAt, &d.UpdatedAt,
		&d.CustomerName, &d.InvoiceNumber, &d.GuiaNumber,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
