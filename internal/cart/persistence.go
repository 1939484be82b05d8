package cart

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TTL aligné sur la durée de vie d'un panier invité côté Redis
const cartTTL = 30 * 24 * time.Hour

// Persistence est le port de stockage du panier. Le store écrit le panier
// complet à chaque mutation ; la lecture renvoie le JSON brut tel quel
// (nil quand la clé n'existe pas). Le décodage tolérant reste dans le store.
type Persistence interface {
	Load(ctx context.Context, cartID string) ([]byte, error)
	Save(ctx context.Context, cartID string, raw []byte) error
	Delete(ctx context.Context, cartID string) error
	LoadState(ctx context.Context, cartID string) ([]byte, error)
	SaveState(ctx context.Context, cartID string, raw []byte) error
}

// Notifier pousse un événement de changement de panier (flux websocket).
// Nil est accepté partout : la notification est un extra, jamais un prérequis.
type Notifier interface {
	Notify(ctx context.Context, cartID, event string)
}

// =============================================
// REDIS — persistance de production
// =============================================

type RedisPersistence struct {
	client *redis.Client
}

func NewRedisPersistence(client *redis.Client) *RedisPersistence {
	return &RedisPersistence{client: client}
}

func cartKey(cartID string) string   { return "cart:" + cartID }
func statusKey(cartID string) string { return "cart:status:" + cartID }

func (r *RedisPersistence) Load(ctx context.Context, cartID string) ([]byte, error) {
	data, err := r.client.Get(ctx, cartKey(cartID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return data, err
}

func (r *RedisPersistence) Save(ctx context.Context, cartID string, raw []byte) error {
	return r.client.Set(ctx, cartKey(cartID), raw, cartTTL).Err()
}

func (r *RedisPersistence) Delete(ctx context.Context, cartID string) error {
	return r.client.Del(ctx, cartKey(cartID)).Err()
}

func (r *RedisPersistence) LoadState(ctx context.Context, cartID string) ([]byte, error) {
	data, err := r.client.Get(ctx, statusKey(cartID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return data, err
}

func (r *RedisPersistence) SaveState(ctx context.Context, cartID string, raw []byte) error {
	return r.client.Set(ctx, statusKey(cartID), raw, cartTTL).Err()
}

// RedisNotifier publie sur le canal cart:<id>, consommé par le websocket
type RedisNotifier struct {
	client *redis.Client
}

func NewRedisNotifier(client *redis.Client) *RedisNotifier {
	return &RedisNotifier{client: client}
}

func (n *RedisNotifier) Notify(ctx context.Context, cartID, event string) {
	// Best-effort : personne n'attend la confirmation de publication
	n.client.Publish(ctx, cartKey(cartID), event)
}

// =============================================
// MÉMOIRE — fake injectable pour les tests
// =============================================

type MemoryPersistence struct {
	mu     sync.RWMutex
	carts  map[string][]byte
	states map[string][]byte

	// Err force l'échec de toutes les opérations (simulation stockage HS)
	Err error
}

func NewMemoryPersistence() *MemoryPersistence {
	return &MemoryPersistence{
		carts:  make(map[string][]byte),
		states: make(map[string][]byte),
	}
}

func (m *MemoryPersistence) Load(_ context.Context, cartID string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return m.carts[cartID], nil
}

func (m *MemoryPersistence) Save(_ context.Context, cartID string, raw []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.carts[cartID] = raw
	return nil
}

func (m *MemoryPersistence) Delete(_ context.Context, cartID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	delete(m.carts, cartID)
	return nil
}

func (m *MemoryPersistence) LoadState(_ context.Context, cartID string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return m.states[cartID], nil
}

func (m *MemoryPersistence) SaveState(_ context.Context, cartID string, raw []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.states[cartID] = raw
	return nil
}

// Seed écrit un contenu brut arbitraire (y compris du JSON corrompu)
func (m *MemoryPersistence) Seed(cartID string, raw []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[cartID] = raw
}
