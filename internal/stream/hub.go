package stream

import (
	"bytes"
	"context"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Hub fans hover-sync updates out to every subscriber of a route: when one
// viewer moves along the profile chart, everyone looking at the same route
// sees the marker move. Redis pub/sub carries updates across instances;
// each published message is prefixed with the publishing hub's id so an
// instance can drop its own echo (local subscribers already got the update
// directly from Broadcast).
type Hub struct {
	id      string
	redis   *redis.Client
	clients map[string]map[*Client]struct{}
	mu      sync.RWMutex
}

type Client struct {
	RouteID string
	Send    chan []byte
}

func NewHub(redisClient *redis.Client) *Hub {
	h := &Hub{
		id:      uuid.NewString(),
		redis:   redisClient,
		clients: map[string]map[*Client]struct{}{},
	}

	if redisClient != nil {
		go h.subscribeRedis()
	}
	return h
}

func (h *Hub) Register(routeID string) *Client {
	client := &Client{
		RouteID: routeID,
		Send:    make(chan []byte, 64),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[routeID] == nil {
		h.clients[routeID] = map[*Client]struct{}{}
	}
	h.clients[routeID][client] = struct{}{}
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if routeClients, ok := h.clients[client.RouteID]; ok {
		delete(routeClients, client)
		if len(routeClients) == 0 {
			delete(h.clients, client.RouteID)
		}
	}
	close(client.Send)
}

// Broadcast delivers payload to local subscribers of the route and publishes
// it for other instances. Slow subscribers are skipped, not waited on; hover
// updates are disposable.
func (h *Hub) Broadcast(routeID string, payload []byte) {
	h.mu.RLock()
	clients := h.clients[routeID]
	h.mu.RUnlock()

	for client := range clients {
		select {
		case client.Send <- payload:
		default:
		}
	}

	if h.redis != nil {
		wire := append([]byte(h.id+"|"), payload...)
		err := h.redis.Publish(context.Background(), redisChannel(routeID), wire).Err()
		if err != nil {
			log.Printf("redis publish error: %v", err)
		}
	}
}

func (h *Hub) subscribeRedis() {
	ctx := context.Background()
	pubsub := h.redis.PSubscribe(ctx, "profile:*:hover")
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		origin, payload := splitOrigin([]byte(msg.Payload))
		if origin == h.id {
			continue
		}
		routeID := routeIDFromChannel(msg.Channel)
		h.mu.RLock()
		clients := h.clients[routeID]
		h.mu.RUnlock()
		for client := range clients {
			select {
			case client.Send <- payload:
			default:
			}
		}
	}
}

// splitOrigin strips the "<hub id>|" prefix from a redis message. Messages
// without a prefix pass through whole with an empty origin.
func splitOrigin(wire []byte) (string, []byte) {
	i := bytes.IndexByte(wire, '|')
	if i < 0 {
		return "", wire
	}
	return string(wire[:i]), wire[i+1:]
}

func redisChannel(routeID string) string {
	return "profile:" + routeID + ":hover"
}

func routeIDFromChannel(ch string) string {
	// profile:{route}:hover
	const prefix = "profile:"
	const suffix = ":hover"
	if len(ch) <= len(prefix)+len(suffix) {
		return ""
	}
	return ch[len(prefix) : len(ch)-len(suffix)]
}
