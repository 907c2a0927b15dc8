// store es el cliente de consola de la tienda: sondea el catálogo contra la
// API, mantiene carrito y wishlist persistidos en el almacén local y permite
// hacer checkout con un token del proveedor de identidad.
//
// Uso: go run ./cmd/store -server http://localhost:3000 -store calzastore.json
// El token para checkout/pedidos se toma de la variable CALZASTORE_TOKEN.
package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tu-usuario/calzastore/internal/application/cart"
	"github.com/tu-usuario/calzastore/internal/application/dto"
	"github.com/tu-usuario/calzastore/internal/application/wishlist"
	"github.com/tu-usuario/calzastore/internal/domain/entity"
	"github.com/tu-usuario/calzastore/internal/infrastructure/localstore"
	"github.com/tu-usuario/calzastore/pkg/config"
	"github.com/tu-usuario/calzastore/pkg/logger"
	"github.com/tu-usuario/calzastore/pkg/storeclient"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}

	serverURL := flag.String("server", "http://"+cfg.HTTP.Addr(), "URL base de la API de la tienda")
	storePath := flag.String("store", cfg.Local.Path, "archivo del almacén local (carrito y wishlist)")
	interval := flag.Duration("interval", cfg.Poller.Interval, "intervalo de polling del catálogo")
	flag.Parse()

	log := logger.New(logger.Config{Env: "development", Level: "warn"})

	kv := localstore.NewFileStore(*storePath)
	cartStore, err := cart.NewStore(kv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar carrito: %v\n", err)
		os.Exit(1)
	}
	wishStore, err := wishlist.NewStore(kv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar wishlist: %v\n", err)
		os.Exit(1)
	}
	orderView, err := storeclient.NewOrderView(kv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar vista de pedidos: %v\n", err)
		os.Exit(1)
	}

	poller := storeclient.NewPoller(*serverURL, *interval, log)
	poller.Start(context.Background())
	defer poller.Stop()

	api := &apiClient{
		baseURL: strings.TrimRight(*serverURL, "/"),
		token:   os.Getenv("CALZASTORE_TOKEN"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}

	fmt.Println("calzastore — escribe 'ayuda' para ver los comandos")
	sc := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !sc.Scan() {
			return
		}
		args := strings.Fields(sc.Text())
		if len(args) == 0 {
			continue
		}
		if err := run(args, poller, cartStore, wishStore, orderView, api); err != nil {
			if err == errQuit {
				return
			}
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
}

var errQuit = fmt.Errorf("salir")

func run(args []string, p *storeclient.Poller, c *cart.Store, w *wishlist.Store, v *storeclient.OrderView, api *apiClient) error {
	switch args[0] {
	case "salir", "exit", "quit":
		return errQuit

	case "ayuda", "help":
		printHelp()
		return nil

	case "lista", "list":
		return printCatalog(p.Filter(""))

	case "buscar", "search":
		if len(args) < 2 {
			return fmt.Errorf("uso: buscar <texto>")
		}
		return printCatalog(p.Filter(strings.Join(args[1:], " ")))

	case "carrito", "cart":
		return runCart(args[1:], p, c)

	case "deseos", "wish":
		return runWish(args[1:], p, w)

	case "checkout":
		if len(args) < 2 {
			return fmt.Errorf("uso: checkout <metodoPago>")
		}
		return runCheckout(args[1], c, api)

	case "pedidos", "orders":
		return runOrders(args[1:], v, api)
	}
	return fmt.Errorf("comando desconocido %q (prueba 'ayuda')", args[0])
}

func runCart(args []string, p *storeclient.Poller, c *cart.Store) error {
	if len(args) == 0 {
		for _, it := range c.Items() {
			fmt.Printf("  %-30s %s %s talla %s x%d\n", it.ID, it.Shoe.Brand, it.Shoe.Model, it.Size, it.Quantity)
		}
		fmt.Printf("  %d unidades, total %d\n", c.TotalItems(), c.Total())
		return nil
	}
	switch args[0] {
	case "add":
		if len(args) != 4 {
			return fmt.Errorf("uso: carrito add <shoeID> <talla> <cantidad>")
		}
		qty, err := strconv.Atoi(args[3])
		if err != nil {
			return fmt.Errorf("cantidad inválida: %v", err)
		}
		shoe, ok := findShoe(p, args[1])
		if !ok {
			return fmt.Errorf("zapato %q no está en el catálogo actual", args[1])
		}
		return c.Add(shoe, []cart.Line{{Size: args[2], Quantity: qty}})
	case "rm":
		if len(args) != 2 {
			return fmt.Errorf("uso: carrito rm <lineID>")
		}
		return c.Remove(args[1])
	case "qty":
		if len(args) != 3 {
			return fmt.Errorf("uso: carrito qty <lineID> <delta>")
		}
		delta, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("delta inválido: %v", err)
		}
		return c.UpdateQuantity(args[1], delta)
	case "clear":
		return c.Clear()
	}
	return fmt.Errorf("subcomando de carrito desconocido %q", args[0])
}

func runWish(args []string, p *storeclient.Poller, w *wishlist.Store) error {
	if len(args) == 0 {
		for _, s := range w.Items() {
			fmt.Printf("  %-10s %s %s (%d)\n", s.ID, s.Brand, s.Model, s.Price)
		}
		fmt.Printf("  %d en la lista\n", w.Count())
		return nil
	}
	switch args[0] {
	case "add":
		if len(args) != 2 {
			return fmt.Errorf("uso: deseos add <shoeID>")
		}
		shoe, ok := findShoe(p, args[1])
		if !ok {
			return fmt.Errorf("zapato %q no está en el catálogo actual", args[1])
		}
		return w.Add(shoe)
	case "rm":
		if len(args) != 2 {
			return fmt.Errorf("uso: deseos rm <shoeID>")
		}
		return w.Remove(args[1])
	}
	return fmt.Errorf("subcomando de deseos desconocido %q", args[0])
}

func runCheckout(paymentMethod string, c *cart.Store, api *apiClient) error {
	items := c.Items()
	if len(items) == 0 {
		return fmt.Errorf("el carrito está vacío")
	}
	total := c.Total()
	out, err := api.createOrder(dto.CreateOrderRequest{
		Items:         items,
		Total:         &total,
		PaymentMethod: paymentMethod,
	})
	if err != nil {
		return err
	}
	fmt.Printf("pedido %s (%s) total %d, seguimiento %s, estado de sync %s\n",
		out.ID, out.Status, out.Total, out.TrackingNumber, out.SyncState)
	return c.Clear()
}

func runOrders(args []string, v *storeclient.OrderView, api *apiClient) error {
	if len(args) > 0 {
		if args[0] != "cancel" || len(args) != 2 {
			return fmt.Errorf("uso: pedidos [cancel <orderID>]")
		}
		// Cancelación de vista local: el registro del servidor queda intacto.
		if err := v.Cancel(args[1]); err != nil {
			return err
		}
		fmt.Printf("pedido %s retirado de la vista local\n", args[1])
		return nil
	}
	orders, err := api.listOrders()
	if err != nil {
		return err
	}
	for _, o := range v.Visible(orders) {
		fmt.Printf("  %s  %s  total %d  %s  [%s]\n",
			o.ID, o.OrderDate.Format("2006-01-02 15:04"), o.Total, o.TrackingNumber, o.SyncState)
	}
	return nil
}

// findShoe busca el id en la última foto del poller.
func findShoe(p *storeclient.Poller, id string) (entity.Shoe, bool) {
	shoes, _ := p.Snapshot()
	for _, s := range shoes {
		if s.ID == id {
			return entity.Shoe{
				ID:       s.ID,
				Type:     s.Type,
				Brand:    s.Brand,
				Model:    s.Model,
				Size:     s.Size,
				Price:    s.Price,
				ImageURL: s.ImageURL,
			}, true
		}
	}
	return entity.Shoe{}, false
}

func printCatalog(shoes []dto.ShoeResponse) error {
	if len(shoes) == 0 {
		fmt.Println("  (catálogo vacío o aún sin sincronizar)")
		return nil
	}
	for _, s := range shoes {
		fmt.Printf("  %-10s %-10s %-12s %-10s talla %-4s %d\n", s.ID, s.Type, s.Brand, s.Model, s.Size, s.Price)
	}
	return nil
}

func printHelp() {
	fmt.Println(`comandos:
  lista                              catálogo completo (última foto del poller)
  buscar <texto>                     filtra por tipo, marca o modelo
  carrito                            muestra el carrito
  carrito add <shoeID> <talla> <n>   añade n unidades de una talla
  carrito qty <lineID> <delta>       ajusta la cantidad (piso 1)
  carrito rm <lineID> | clear        quita una línea / vacía
  deseos [add|rm <shoeID>]           wishlist
  checkout <metodoPago>              crea el pedido con el carrito actual
  pedidos                            lista los pedidos del servidor
  pedidos cancel <orderID>           oculta el pedido de la vista local
  salir`)
}

// apiClient cubre los endpoints autenticados de la API.
type apiClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func (a *apiClient) createOrder(in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequest(http.MethodPost, a.baseURL+"/api/orders/", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	var out dto.OrderResponse
	if err := a.do(req, http.StatusCreated, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *apiClient) listOrders() ([]dto.OrderResponse, error) {
	req, err := http.NewRequest(http.MethodGet, a.baseURL+"/api/orders/", nil)
	if err != nil {
		return nil, err
	}
	var out []dto.OrderResponse
	if err := a.do(req, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *apiClient) do(req *http.Request, wantStatus int, out any) error {
	if a.token == "" {
		return fmt.Errorf("falta el token: exporta CALZASTORE_TOKEN")
	}
	req.Header.Set("Authorization", "Bearer "+a.token)
	resp, err := a.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		var e dto.ErrorResponse
		if json.NewDecoder(resp.Body).Decode(&e) == nil && e.Code != "" {
			return fmt.Errorf("la API respondió %d: %s (%s)", resp.StatusCode, e.Message, e.Code)
		}
		return fmt.Errorf("la API respondió %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
