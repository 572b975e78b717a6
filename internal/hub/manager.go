// Package hub delivers real-time complaint events to connected subscribers.
// Delivery is best effort and at most once: only currently connected clients
// receive an event, nothing is queued for offline users.
package hub

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"grievance/backend/internal/config"
	"grievance/backend/internal/models"
	"grievance/backend/internal/storage"
)

// Dispatcher pushes a named event to one audience. Calls never fail; problems
// are logged and the event is dropped.
type Dispatcher interface {
	ToUser(userID string, event models.EventName, payload any)
	ToRole(role models.Role, event models.EventName, payload any)
	ToDepartment(departmentID string, event models.EventName, payload any)
}

// Broker carries envelopes between instances.
type Broker interface {
	HasBroker() bool
	PublishEnvelope(ctx context.Context, env models.Envelope) error
	SubscribeEnvelopes(ctx context.Context) storage.Subscription
}

type group map[Client]struct{}

// ManagerService owns the subscriber groups. It is uninitialized until Run
// is called; dispatches before that are logged and dropped.
type ManagerService struct {
	RegisterCh   chan Client
	UnregisterCh chan Client
	DeliverCh    chan models.Envelope

	Broker         Broker
	// PublishTimeout bounds each broker publish made on the caller's goroutine.
	PublishTimeout time.Duration

	mu     sync.RWMutex
	users  map[string]group
	roles  map[models.Role]group
	depts  map[string]group
	ready  atomic.Bool
	closed chan struct{}
}

var _ Dispatcher = (*ManagerService)(nil)

// NewManagerService creates a hub. broker may be nil for single-instance delivery.
func NewManagerService(broker Broker) *ManagerService {
	return &ManagerService{
		RegisterCh:     make(chan Client),
		UnregisterCh:   make(chan Client),
		DeliverCh:      make(chan models.Envelope, 256),
		Broker:         broker,
		PublishTimeout: config.PublishTimeout,
		users:          make(map[string]group),
		roles:          make(map[models.Role]group),
		depts:          make(map[string]group),
		closed:         make(chan struct{}),
	}
}

// Ready reports whether the run loop has started.
func (m *ManagerService) Ready() bool { return m.ready.Load() }

func (m *ManagerService) ToUser(userID string, event models.EventName, payload any) {
	m.dispatch(models.AudienceUser, userID, event, payload)
}

func (m *ManagerService) ToRole(role models.Role, event models.EventName, payload any) {
	m.dispatch(models.AudienceRole, string(role), event, payload)
}

func (m *ManagerService) ToDepartment(departmentID string, event models.EventName, payload any) {
	m.dispatch(models.AudienceDepartment, departmentID, event, payload)
}

func (m *ManagerService) dispatch(audience models.AudienceKind, target string, event models.EventName, payload any) {
	if !m.Ready() {
		log.Printf("WARN: hub not ready, dropping %s for %s %s", event, audience, target)
		return
	}
	if target == "" {
		log.Printf("WARN: dropping %s with empty %s target", event, audience)
		return
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		log.Printf("ERROR: cannot encode %s payload: %v", event, err)
		return
	}
	env := models.Envelope{Audience: audience, Target: target, Event: event, Payload: raw, SentAt: time.Now()}

	if m.Broker != nil && m.Broker.HasBroker() {
		ctx, cancel := context.WithTimeout(context.Background(), m.PublishTimeout)
		err := m.Broker.PublishEnvelope(ctx, env)
		cancel()
		if err == nil {
			return
		}
		log.Printf("ERROR: publish %s failed, delivering locally: %v", event, err)
	}
	m.enqueue(env)
}

func (m *ManagerService) enqueue(env models.Envelope) {
	select {
	case m.DeliverCh <- env:
	default:
		log.Printf("WARN: delivery queue full, dropping %s for %s %s", env.Event, env.Audience, env.Target)
	}
}

// Run is the hub's main loop. It returns when ctx is cancelled.
func (m *ManagerService) Run(ctx context.Context) {
	if m.Broker != nil && m.Broker.HasBroker() {
		m.StartPubSubListener(ctx)
	}
	m.ready.Store(true)
	log.Println("INFO: notification hub ready")

	defer func() {
		m.ready.Store(false)
		close(m.closed)
		m.closeAll()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case c := <-m.RegisterCh:
			m.register(c)
		case c := <-m.UnregisterCh:
			m.unregister(c)
		case env := <-m.DeliverCh:
			m.deliver(env)
		}
	}
}

// Done is closed once Run has returned.
func (m *ManagerService) Done() <-chan struct{} { return m.closed }

// Register hands c to the run loop. It gives up when the hub has stopped.
func (m *ManagerService) Register(c Client) bool {
	select {
	case m.RegisterCh <- c:
		return true
	case <-m.closed:
		return false
	}
}

// Unregister removes c from every group. It gives up when the hub has stopped.
func (m *ManagerService) Unregister(c Client) {
	select {
	case m.UnregisterCh <- c:
	case <-m.closed:
	}
}

func join[K comparable](groups map[K]group, key K, c Client) {
	if groups[key] == nil {
		groups[key] = make(group)
	}
	groups[key][c] = struct{}{}
}

func leave[K comparable](groups map[K]group, key K, c Client) {
	if g, ok := groups[key]; ok {
		delete(g, c)
		if len(g) == 0 {
			delete(groups, key)
		}
	}
}

func (m *ManagerService) register(c Client) {
	m.mu.Lock()
	defer m.mu.Unlock()

	join(m.users, c.GetUserID(), c)
	join(m.roles, c.GetRole(), c)
	if dept := c.GetDepartmentID(); dept != "" {
		join(m.depts, dept, c)
	}
	log.Printf("INFO: subscriber %s (%s) connected", c.GetUserID(), c.GetRole())
}

// remove drops c from its groups and reports whether it was registered.
func (m *ManagerService) remove(c Client) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[c.GetUserID()][c]; !ok {
		return false
	}
	leave(m.users, c.GetUserID(), c)
	leave(m.roles, c.GetRole(), c)
	if dept := c.GetDepartmentID(); dept != "" {
		leave(m.depts, dept, c)
	}
	return true
}

func (m *ManagerService) unregister(c Client) {
	if m.remove(c) {
		c.Close()
		log.Printf("INFO: subscriber %s disconnected", c.GetUserID())
	}
}

func (m *ManagerService) targets(env models.Envelope) []Client {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var g group
	switch env.Audience {
	case models.AudienceUser:
		g = m.users[env.Target]
	case models.AudienceRole:
		g = m.roles[models.Role(env.Target)]
	case models.AudienceDepartment:
		g = m.depts[env.Target]
	}
	out := make([]Client, 0, len(g))
	for c := range g {
		out = append(out, c)
	}
	return out
}

func (m *ManagerService) deliver(env models.Envelope) {
	for _, c := range m.targets(env) {
		select {
		case c.GetSendChannel() <- env:
		default:
			// Slow subscriber: drop it rather than block the loop.
			log.Printf("WARN: subscriber %s is not keeping up, disconnecting", c.GetUserID())
			m.unregister(c)
		}
	}
}

func (m *ManagerService) closeAll() {
	m.mu.Lock()
	var all []Client
	for _, g := range m.users {
		for c := range g {
			all = append(all, c)
		}
	}
	m.users = make(map[string]group)
	m.roles = make(map[models.Role]group)
	m.depts = make(map[string]group)
	m.mu.Unlock()

	for _, c := range all {
		c.Close()
	}
}

// SubscriberCount returns how many clients are in the user's group.
func (m *ManagerService) SubscriberCount(userID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users[userID])
}
