package service

import (
	"context"
	"embed"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/Kerhoff/planmyevents/internal/metrics"
	"github.com/Kerhoff/planmyevents/internal/models"
	"github.com/Kerhoff/planmyevents/internal/notify"
	"github.com/Kerhoff/planmyevents/internal/storage"
)

//go:embed seed/catalog.yaml
var seedFS embed.FS

// Service is the planner's business logic layer. It owns the in-memory state
// (events, cart, catalog, lookup lists, settings), persists every change
// through the storage layer and announces it on the change bus.
//
// Every operation runs under one mutex, so commands never interleave.
// Changes are published after the state lock is released, under a separate
// publish lock taken before the release: subscribers see changes in commit
// order and may call read methods, but must not call mutating methods
// synchronously from a handler.
type Service struct {
	mu    sync.Mutex
	pubMu sync.Mutex

	store   *storage.Store
	logger  *logrus.Logger
	metrics *metrics.Metrics
	bus     *notify.Bus
	now     func() time.Time
	newID   func() string
	seed    bool

	events         []models.Event
	cart           []models.CartItem
	currentEventID string
	dishes         []models.Dish
	products       []models.Product
	lookup         models.LookupData
	settings       models.Settings
}

// Option configures a Service
type Option func(*Service)

// WithMetrics records cart and storage figures on m
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithBus publishes changes on b instead of a private bus
func WithBus(b *notify.Bus) Option {
	return func(s *Service) { s.bus = b }
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator overrides the id source
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) { s.newID = gen }
}

// WithoutSeed disables loading the demo catalog into an empty store
func WithoutSeed() Option {
	return func(s *Service) { s.seed = false }
}

// New creates a Service on top of store. Call Init before use.
func New(store *storage.Store, logger *logrus.Logger, opts ...Option) *Service {
	s := &Service{
		store:    store,
		logger:   logger,
		now:      time.Now,
		newID:    newTimeOrderedID,
		seed:     true,
		lookup:   models.DefaultLookupData(),
		settings: models.DefaultSettings(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.bus == nil {
		s.bus = notify.NewBus(logger)
	}
	return s
}

// newTimeOrderedID returns a UUIDv7, whose string form sorts by creation time
func newTimeOrderedID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Bus returns the change bus subscribers attach to
func (s *Service) Bus() *notify.Bus {
	return s.bus
}

// Init loads the persisted state. Missing or unreadable keys start empty;
// an empty catalog is filled with the demo data unless seeding is disabled.
func (s *Service) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load(ctx)
}

func (s *Service) load(ctx context.Context) error {
	s.events = nil
	s.cart = nil
	s.currentEventID = ""
	s.dishes = nil
	s.products = nil

	s.store.Get(ctx, storage.KeyEvents, &s.events)
	s.store.Get(ctx, storage.KeyCart, &s.cart)
	if cart, dropped := normalizeCart(s.cart); dropped > 0 {
		s.logger.WithField("dropped", dropped).Warn("Stored cart had invalid or repeated items")
		s.cart = cart
	}
	s.store.Get(ctx, storage.KeyCurrentEventID, &s.currentEventID)
	s.store.Get(ctx, storage.KeyDishes, &s.dishes)
	s.store.Get(ctx, storage.KeyProducts, &s.products)

	var stored models.LookupData
	if s.store.Get(ctx, storage.KeyLookupData, &stored) {
		s.lookup = mergeLookup(stored)
	} else {
		s.lookup = models.DefaultLookupData()
	}

	// Decoding over the defaults keeps fields missing from older blobs.
	s.settings = models.DefaultSettings()
	s.store.Get(ctx, storage.KeyAppSettings, &s.settings)

	if s.seed && (len(s.dishes) == 0 || len(s.products) == 0) {
		catalog, err := loadSeedCatalog()
		if err != nil {
			return fmt.Errorf("failed to load seed catalog: %w", err)
		}
		now := s.now()
		if len(s.dishes) == 0 {
			for i := range catalog.Dishes {
				catalog.Dishes[i].CreatedDate = now
				catalog.Dishes[i].LastModified = now
			}
			s.dishes = catalog.Dishes
			s.store.Set(ctx, storage.KeyDishes, s.dishes)
			s.logger.Infof("Seeded %d demo dishes", len(s.dishes))
		}
		if len(s.products) == 0 {
			s.products = catalog.Products
			s.store.Set(ctx, storage.KeyProducts, s.products)
			s.logger.Infof("Seeded %d demo products", len(s.products))
		}
	}

	s.metrics.SetSizes(len(s.events), len(s.cart))
	s.logger.WithFields(logrus.Fields{
		"events":   len(s.events),
		"cart":     len(s.cart),
		"dishes":   len(s.dishes),
		"products": len(s.products),
	}).Info("Planner state loaded")
	return nil
}

type seedCatalog struct {
	Dishes   []models.Dish    `yaml:"dishes"`
	Products []models.Product `yaml:"products"`
}

func loadSeedCatalog() (*seedCatalog, error) {
	data, err := seedFS.ReadFile("seed/catalog.yaml")
	if err != nil {
		return nil, err
	}
	var c seedCatalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// mutate runs fn under the state lock. When fn reports a change it is
// published after the lock is released, in commit order.
func (s *Service) mutate(fn func() (*notify.Change, error)) error {
	s.mu.Lock()
	change, err := fn()
	if err != nil || change == nil {
		s.mu.Unlock()
		return err
	}
	s.metrics.SetSizes(len(s.events), len(s.cart))
	change.At = s.now()

	s.pubMu.Lock()
	s.mu.Unlock()
	defer s.pubMu.Unlock()

	s.bus.Publish(*change)
	return nil
}

// ---------------------------------------------------------------------------
// Persistence helpers. Callers hold s.mu.
// ---------------------------------------------------------------------------

func (s *Service) persistEvents(ctx context.Context) {
	s.store.Set(ctx, storage.KeyEvents, s.events)
}

func (s *Service) persistCart(ctx context.Context) {
	s.store.Set(ctx, storage.KeyCart, s.cart)
}

func (s *Service) persistCurrentEvent(ctx context.Context) {
	if s.currentEventID == "" {
		s.store.Remove(ctx, storage.KeyCurrentEventID)
		return
	}
	s.store.Set(ctx, storage.KeyCurrentEventID, s.currentEventID)
}

func (s *Service) persistDishes(ctx context.Context) {
	s.store.Set(ctx, storage.KeyDishes, s.dishes)
}

func (s *Service) persistProducts(ctx context.Context) {
	s.store.Set(ctx, storage.KeyProducts, s.products)
}

func (s *Service) persistLookup(ctx context.Context) {
	s.store.Set(ctx, storage.KeyLookupData, s.lookup)
}

func (s *Service) persistSettings(ctx context.Context) {
	s.store.Set(ctx, storage.KeyAppSettings, s.settings)
}

// ---------------------------------------------------------------------------
// Copy helpers. Readers never get references into the live state.
// ---------------------------------------------------------------------------

func cloneEvent(e models.Event) models.Event {
	e.Dishes = append([]models.EventDish{}, e.Dishes...)
	if e.EventDate != nil {
		d := *e.EventDate
		e.EventDate = &d
	}
	return e
}

func cloneDish(d models.Dish) models.Dish {
	d.Ingredients = append([]models.Ingredient{}, d.Ingredients...)
	d.Equipment = append([]models.Equipment{}, d.Equipment...)
	return d
}

func (s *Service) findEvent(id string) int {
	for i := range s.events {
		if s.events[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Service) findDish(id string) int {
	for i := range s.dishes {
		if s.dishes[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Service) findProduct(id string) int {
	for i := range s.products {
		if s.products[i].ID == id {
			return i
		}
	}
	return -1
}
