package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/tu-usuario/calzastore/internal/application/catalog"
	"github.com/tu-usuario/calzastore/internal/domain"
	"github.com/tu-usuario/calzastore/internal/domain/entity"
)

var _ catalog.UpstreamSource = (*Client)(nil)

// itemsPath ruta del listado publicado por el upstream (Web A).
const itemsPath = "/api/keys"

// Client implementa catalog.UpstreamSource contra el servicio HTTP upstream.
// Usa net/http de la stdlib con timeout fijo; el timeout es la única
// semántica de cancelación: no hay reintentos ni backoff.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient construye el cliente. timeout acota el GET completo (conexión,
// espera y lectura del cuerpo).
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// listResponse forma esperada del upstream: {"items":[...]} o {"error":"..."}.
type listResponse struct {
	Items []entity.Shoe `json:"items"`
	Error string        `json:"error"`
}

// FetchItems consulta el listado completo del upstream, incluidos los
// artículos revocados (la política de revocados es del sincronizador, no
// del transporte).
func (c *Client) FetchItems(ctx context.Context) ([]entity.Shoe, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+itemsPath, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	req.Header.Set("Cache-Control", "no-store")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: upstream respondió %d", domain.ErrUpstreamUnavailable, resp.StatusCode)
	}

	var body listResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedUpstream, err)
	}
	// Un 200 sin campo items es respuesta malformada; un items presente pero
	// vacío es legítimo y significa "nada está activo".
	if body.Items == nil {
		return nil, fmt.Errorf("%w: falta el campo items", domain.ErrMalformedUpstream)
	}
	return body.Items, nil
}
