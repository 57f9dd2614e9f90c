package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sirizagaria/editorial-api/internal/application/billing"
	"github.com/sirizagaria/editorial-api/internal/domain/dte"
	"github.com/sirizagaria/editorial-api/internal/domain/entity"
	apphttp "github.com/sirizagaria/editorial-api/internal/interfaces/http"
	"github.com/sirizagaria/editorial-api/pkg/logger"
)

// Fakes en memoria para levantar la API completa sin PostgreSQL.

type memDTERepo struct {
	docs []*entity.DTEDocument
}

func (m *memDTERepo) Create(doc *entity.DTEDocument) error {
	m.docs = append(m.docs, doc)
	return nil
}

func (m *memDTERepo) GetByID(id string) (*entity.DTEDocument, error) {
	for _, d := range m.docs {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, nil
}

func (m *memDTERepo) GetByUUID(uuid string) (*entity.DTEDocument, error) {
	for _, d := range m.docs {
		if d.UUID == uuid {
			return d, nil
		}
	}
	return nil, nil
}

func (m *memDTERepo) GetByFolio(rutEmisor string, tipoDTE, folio int) (*entity.DTEDocument, error) {
	for _, d := range m.docs {
		if d.RUTEmisor == rutEmisor && d.TipoDTE == tipoDTE && d.Folio == folio {
			return d, nil
		}
	}
	return nil, nil
}

func (m *memDTERepo) List(filter entity.DTEFilter, limit, offset int) ([]*entity.DTEDocument, error) {
	var out []*entity.DTEDocument
	for _, d := range m.docs {
		if filter.TipoDTE != 0 && d.TipoDTE != filter.TipoDTE {
			continue
		}
		if filter.Status != "" && d.Status != filter.Status {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (m *memDTERepo) Count(filter entity.DTEFilter) (int, error) {
	docs, _ := m.List(filter, 0, 0)
	return len(docs), nil
}

func (m *memDTERepo) UpdateStatus(doc *entity.DTEDocument) error {
	for i, d := range m.docs {
		if d.ID == doc.ID {
			m.docs[i] = doc
		}
	}
	return nil
}

func (m *memDTERepo) Stats() (*entity.DTEStats, error) {
	stats := &entity.DTEStats{ByTipoDTE: map[int]int{}, ByStatus: map[string]int{}}
	for _, d := range m.docs {
		stats.TotalDocuments++
		stats.TotalAmount = stats.TotalAmount.Add(d.MntTotal)
		stats.TotalIVA = stats.TotalIVA.Add(d.IVA)
		stats.ByTipoDTE[d.TipoDTE]++
		stats.ByStatus[d.Status]++
	}
	return stats, nil
}

type memCustomerRepo struct{}

func (memCustomerRepo) GetByID(id string) (*entity.Customer, error) { return nil, nil }
func (memCustomerRepo) GetByRUTOrEmail(rut, email string) (*entity.Customer, error) {
	return nil, nil
}

type memInvoiceRepo struct{}

func (memInvoiceRepo) GetByID(id string) (*entity.Invoice, error) { return nil, nil }

type memShippingRepo struct{}

func (memShippingRepo) GetByID(id string) (*entity.Shipping, error) { return nil, nil }
func (memShippingRepo) MarkGuiaGenerated(id, dteUUID string) error  { return nil }

func buildTestAPI(t *testing.T) (*fiber.App, *memDTERepo) {
	t.Helper()
	repo := &memDTERepo{}
	gen := dte.NewGenerator(dte.EmisorProfile{
		RUT:         "77226199-3",
		RazonSocial: "Siriza Agaria S.A.",
		Giro:        "Comercio",
		Acteco:      []int{620200},
		Direccion:   "Av. Principal 123",
		Comuna:      "Santiago",
		Ciudad:      "Santiago",
	})
	uc := billing.NewDocumentoUseCase(repo, memCustomerRepo{}, memInvoiceRepo{}, memShippingRepo{}, gen, logger.Nop())

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{DocumentoUC: uc, JWTSecret: testJWTSecret})
	return app, repo
}

func facturaBody() map[string]any {
	return map[string]any{
		"rutReceptor":         "12.345.678-5",
		"razonSocialReceptor": "Librería Andes Ltda.",
		"giroReceptor":        "Venta de libros",
		"dirReceptor":         "Calle Falsa 123",
		"cmnaReceptor":        "Providencia",
		"mntNeto":             10000,
		"items": []map[string]any{
			{"nmbItem": "Libro: Cien años", "qtyItem": 2, "prcItem": 5000},
		},
	}
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerToken(t))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestPostFacturaCreate(t *testing.T) {
	app, repo := buildTestAPI(t)

	resp := postJSON(t, app, "/dte/factura/create", facturaBody())
	body := decodeBody(t, resp)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["uuid"])
	assert.Equal(t, "pending", body["status"])

	data := body["data"].(map[string]any)
	assert.Equal(t, float64(33), data["tipoDTE"])
	assert.Equal(t, float64(0), data["folio"])
	require.Len(t, repo.docs, 1)
}

func TestPostFacturaCreateSinToken(t *testing.T) {
	app, _ := buildTestAPI(t)

	raw, _ := json.Marshal(facturaBody())
	req := httptest.NewRequest(http.MethodPost, "/dte/factura/create", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestPostFacturaCreateInvalida(t *testing.T) {
	app, repo := buildTestAPI(t)

	body := facturaBody()
	delete(body, "razonSocialReceptor")
	delete(body, "dirReceptor")

	resp := postJSON(t, app, "/dte/factura/create", body)
	out := decodeBody(t, resp)

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, false, out["success"])
	details := out["details"].([]any)
	assert.Contains(t, details, "RznSocRecep is required")
	assert.Contains(t, details, "DirRecep is required")
	assert.Empty(t, repo.docs)
}

func TestPostRawDTEFolioNoCero(t *testing.T) {
	app, _ := buildTestAPI(t)

	// Un DTE candidato completo pero con folio pre-asignado.
	doc := map[string]any{
		"DTE": map[string]any{
			"Encabezado": map[string]any{
				"IdDoc": map[string]any{"TipoDTE": 33, "Folio": 555, "FchEmis": "2026-01-15"},
				"Emisor": map[string]any{
					"RUTEmisor": "77226199-3", "RznSoc": "Siriza Agaria S.A.", "GiroEmis": "Comercio",
					"Acteco": []int{620200}, "DirOrigen": "Av. Principal 123", "CmnaOrigen": "Santiago",
				},
				"Receptor": map[string]any{
					"RUTRecep": "12345678-5", "RznSocRecep": "Librería Andes Ltda.",
					"GiroRecep": "Venta de libros", "DirRecep": "Calle Falsa 123", "CmnaRecep": "Providencia",
				},
				"Totales": map[string]any{"MntNeto": 10000, "IVA": 1900, "MntTotal": 11900},
			},
			"Detalle": []map[string]any{
				{"NroLinDet": 1, "NmbItem": "Libro", "QtyItem": 1, "UnmdItem": "UN", "PrcItem": 10000, "MontoItem": 10000},
			},
		},
	}

	resp := postJSON(t, app, "/dte", doc)
	out := decodeBody(t, resp)

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, out["details"].([]any), "Folio must be 0 (system generates it)")
}

func TestPutStatusCicloCompleto(t *testing.T) {
	app, repo := buildTestAPI(t)

	resp := postJSON(t, app, "/dte/factura/create", facturaBody())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
	require.Len(t, repo.docs, 1)
	id := repo.docs[0].ID

	// El paso externo reporta aceptación con folio asignado.
	raw, _ := json.Marshal(map[string]any{
		"status": "completed", "folio": 555,
		"siiResponse": map[string]any{"track_id": "98765"},
	})
	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/dte/%s/status", id), bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerToken(t))
	updateResp, err := app.Test(req, -1)
	require.NoError(t, err)
	out := decodeBody(t, updateResp)

	assert.Equal(t, http.StatusOK, updateResp.StatusCode)
	assert.Equal(t, "completed", out["status"])
	assert.Equal(t, float64(555), out["folio"])
	data := out["data"].(map[string]any)
	assert.NotNil(t, data["processedAt"])

	// Un estado terminal congela el documento.
	raw, _ = json.Marshal(map[string]any{"status": "cancelled"})
	req = httptest.NewRequest(http.MethodPut, fmt.Sprintf("/dte/%s/status", id), bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerToken(t))
	conflictResp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer conflictResp.Body.Close()

	assert.Equal(t, http.StatusConflict, conflictResp.StatusCode)
	assert.Equal(t, "completed", repo.docs[0].Status)
}

func TestGetPendingYPorUUID(t *testing.T) {
	app, repo := buildTestAPI(t)

	resp := postJSON(t, app, "/dte/boleta/create", facturaBody())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
	uuid := repo.docs[0].UUID

	req := httptest.NewRequest(http.MethodGet, "/dte/pending/"+uuid, nil)
	pendingResp, err := app.Test(req, -1)
	require.NoError(t, err)
	out := decodeBody(t, pendingResp)
	assert.Equal(t, http.StatusOK, pendingResp.StatusCode)
	assert.Equal(t, "pending", out["status"])

	req = httptest.NewRequest(http.MethodGet, "/dte/uuid/"+uuid, nil)
	uuidResp, err := app.Test(req, -1)
	require.NoError(t, err)
	out = decodeBody(t, uuidResp)
	assert.Equal(t, http.StatusOK, uuidResp.StatusCode)
	assert.Equal(t, float64(39), out["data"].(map[string]any)["tipoDTE"])
}

func TestGetPendingNoExiste(t *testing.T) {
	app, _ := buildTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/dte/pending/no-existe", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetPorFolio(t *testing.T) {
	app, repo := buildTestAPI(t)
	repo.docs = append(repo.docs, &entity.DTEDocument{
		ID: "id-1", UUID: "uuid-1", RUTEmisor: "772261993", TipoDTE: 33, Folio: 555,
		Status: "completed", MntTotal: decimal.NewFromInt(11900),
	})

	req := httptest.NewRequest(http.MethodGet, "/dte/77.226.199-3/33/555", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	out := decodeBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "uuid-1", out["data"].(map[string]any)["uuid"])
}

func TestListYStats(t *testing.T) {
	app, _ := buildTestAPI(t)

	resp := postJSON(t, app, "/dte/factura/create", facturaBody())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
	resp = postJSON(t, app, "/dte/boleta/create", facturaBody())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	req := httptest.NewRequest(http.MethodGet, "/dte?tipoDTE=33", nil)
	listResp, err := app.Test(req, -1)
	require.NoError(t, err)
	out := decodeBody(t, listResp)
	assert.Equal(t, http.StatusOK, listResp.StatusCode)
	assert.Len(t, out["data"].([]any), 1)
	meta := out["meta"].(map[string]any)
	assert.Equal(t, float64(1), meta["total"])

	req = httptest.NewRequest(http.MethodGet, "/dte/stats", nil)
	statsResp, err := app.Test(req, -1)
	require.NoError(t, err)
	out = decodeBody(t, statsResp)
	assert.Equal(t, http.StatusOK, statsResp.StatusCode)
	data := out["data"].(map[string]any)
	assert.Equal(t, float64(2), data["totalDocuments"])
	assert.Equal(t, float64(2), data["byStatus"].(map[string]any)["pending"])
}
