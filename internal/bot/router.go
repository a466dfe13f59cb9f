package bot

import (
	"log/slog"
	"strings"
	"sync"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/arcade-bot/internal/bot/handlers"
	"github.com/Proton-105/arcade-bot/internal/bot/keyboard"
)

// Router sends slash commands and button presses through the middleware
// chain to their handlers. Any other text goes to the Dispatcher through the
// shorter text chain.
type Router struct {
	mu        sync.RWMutex
	commands  map[string]handlers.Handler
	callbacks map[string]handlers.CallbackHandler
	fallback  handlers.Handler
	chain     []handlers.Middleware
	textChain []handlers.Middleware

	dispatcher *Dispatcher
	log        *slog.Logger
}

// NewRouter builds a Router with empty registries.
func NewRouter(dispatcher *Dispatcher, log *slog.Logger) *Router {
	if log == nil {
		log = slog.Default()
	}

	return &Router{
		commands:   make(map[string]handlers.Handler),
		callbacks:  make(map[string]handlers.CallbackHandler),
		dispatcher: dispatcher,
		log:        log,
	}
}

// RegisterCommand binds cmd, including its leading slash, to h.
func (r *Router) RegisterCommand(cmd string, h handlers.Handler) {
	r.mu.Lock()
	r.commands[strings.ToLower(cmd)] = h
	r.mu.Unlock()
}

// RegisterCallback binds buttons encoded with unique to h.
func (r *Router) RegisterCallback(unique string, h handlers.CallbackHandler) {
	r.mu.Lock()
	r.callbacks[unique] = h
	r.mu.Unlock()
}

// Use appends mw to the chain. The first registered middleware runs outermost.
func (r *Router) Use(mw handlers.Middleware) {
	r.mu.Lock()
	r.chain = append(r.chain, mw)
	r.mu.Unlock()
}

// UseForText appends mw to the chain around plain-text dispatch.
func (r *Router) UseForText(mw handlers.Middleware) {
	r.mu.Lock()
	r.textChain = append(r.textChain, mw)
	r.mu.Unlock()
}

// SetDefault sets the handler for slash commands nobody registered.
func (r *Router) SetDefault(h handlers.Handler) {
	r.mu.Lock()
	r.fallback = h
	r.mu.Unlock()
}

// Route handles one update.
func (r *Router) Route(c telebot.Context) error {
	if c == nil {
		return nil
	}

	if cb := c.Callback(); cb != nil {
		unique, _, err := keyboard.DecodeCallback(cb.Data)
		if err != nil {
			return c.Respond()
		}

		h, chain := r.lookupCallback(unique)
		if h == nil {
			r.log.Info("no callback handler found", slog.String("data", cb.Data))
			return c.Respond()
		}
		return wrap(handlers.Handler(h), chain)(c)
	}

	text := strings.TrimSpace(c.Text())
	if !strings.HasPrefix(text, "/") {
		r.mu.RLock()
		chain := r.textChain
		r.mu.RUnlock()
		return wrap(r.dispatch, chain)(c)
	}

	h, chain := r.lookupCommand(ParseCommand(text))
	if h == nil {
		return nil
	}
	return wrap(h, chain)(c)
}

func (r *Router) dispatch(c telebot.Context) error {
	r.dispatcher.Dispatch(c)
	return nil
}

// ParseCommand extracts the lowercased command from message text, dropping
// any @botname suffix and arguments.
func ParseCommand(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}

	cmd, _, _ := strings.Cut(fields[0], "@")
	return strings.ToLower(cmd)
}

func (r *Router) lookupCommand(cmd string) (handlers.Handler, []handlers.Middleware) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.commands[cmd]
	if !ok {
		h = r.fallback
	}
	return h, r.chain
}

func (r *Router) lookupCallback(unique string) (handlers.CallbackHandler, []handlers.Middleware) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.callbacks[unique], r.chain
}

// wrap applies chain around h so that chain[0] sees the update first.
func wrap(h handlers.Handler, chain []handlers.Middleware) handlers.Handler {
	for i := len(chain) - 1; i >= 0; i-- {
		h = chain[i](h)
	}
	return h
}
