package notify

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"time"

	"pet-nutrition-platform/internal/platform/httpclient"
)

const DefaultInterval = 30 * time.Second

// Poller consulta el contador de notificaciones no leídas y avisa por
// callback cuando cambia. Un solo Start por Poller; Stop es idempotente.
type Poller struct {
	api      *httpclient.Client
	clientID string
	interval time.Duration

	onChange func(total int)

	mu      sync.Mutex
	cancel  context.CancelFunc
	last    int
	started bool
}

func NewPoller(api *httpclient.Client, clientID string, interval time.Duration, onChange func(total int)) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		api:      api,
		clientID: clientID,
		interval: interval,
		onChange: onChange,
		last:     -1,
	}
}

// Start lanza el loop de sondeo. El primer fetch sale inmediato para
// que el badge no espere un intervalo completo.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	ctx, p.cancel = context.WithCancel(ctx)
	p.started = true
	p.mu.Unlock()

	go p.loop(ctx)
}

func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.started = false
}

func (p *Poller) loop(ctx context.Context) {
	p.poll(ctx)

	t := time.NewTicker(p.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			p.poll(ctx)
		}
	}
}

// poll trae el total y notifica solo si cambió. Los errores de red se
// ignoran: el badge conserva el último valor conocido.
func (p *Poller) poll(ctx context.Context) {
	var resp struct {
		Total int `json:"total"`
	}
	path := "/cliente/notificaciones/" + url.PathEscape(p.clientID) + "/no-leidas"
	if err := p.api.DoJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return
	}

	p.mu.Lock()
	// Una respuesta que llega después de Stop se descarta: la pantalla
	// que la pidió ya no está activa.
	if !p.started || ctx.Err() != nil {
		p.mu.Unlock()
		return
	}
	changed := resp.Total != p.last
	p.last = resp.Total
	p.mu.Unlock()

	if changed && p.onChange != nil {
		p.onChange(resp.Total)
	}
}

// Unread devuelve el último contador conocido (-1 si aún no hay dato).
func (p *Poller) Unread() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}
