package handler

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"sync"

	"cinema_booking/database"
	"cinema_booking/helper"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

const seatMapChannel = "seatmap.updates"

type seatMapEvent struct {
	ShowtimeId uint                  `json:"showtimeId"`
	Seats      []helper.SeatMapEntry `json:"seats"`
}

var (
	seatMapMu      sync.Mutex
	seatMapClients = make(map[uint]map[*websocket.Conn]bool)
)

// SeatMapUpgrade gates the websocket route behind a proper upgrade
// request.
func SeatMapUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// SeatMapSocket streams seat map updates for one showtime. The client
// gets a snapshot on connect and a full refreshed map after every
// booking or cancellation touching the showtime.
func SeatMapSocket() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		id, err := strconv.ParseUint(conn.Params("id"), 10, 32)
		if err != nil || id == 0 {
			conn.WriteJSON(fiber.Map{"error": "invalid showtime id"})
			conn.Close()
			return
		}
		showtimeId := uint(id)

		seatMapMu.Lock()
		if seatMapClients[showtimeId] == nil {
			seatMapClients[showtimeId] = make(map[*websocket.Conn]bool)
		}
		seatMapClients[showtimeId][conn] = true
		seatMapMu.Unlock()

		defer func() {
			seatMapMu.Lock()
			delete(seatMapClients[showtimeId], conn)
			if len(seatMapClients[showtimeId]) == 0 {
				delete(seatMapClients, showtimeId)
			}
			seatMapMu.Unlock()
			conn.Close()
		}()

		if entries, err := helper.CachedSeatMap(showtimeId); err == nil {
			conn.WriteJSON(seatMapEvent{ShowtimeId: showtimeId, Seats: entries})
		}

		// Read loop only detects the close; clients do not send data.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
}

// BroadcastShowtime pushes the refreshed seat map to every subscriber
// of the showtime. With redis configured the event goes through the
// pub/sub channel so every instance relays it; without redis it is
// delivered to local connections only.
func BroadcastShowtime(showtimeId uint) {
	entries, err := helper.CachedSeatMap(showtimeId)
	if err != nil {
		log.Printf("seatmap broadcast %d: %v", showtimeId, err)
		return
	}
	event := seatMapEvent{ShowtimeId: showtimeId, Seats: entries}

	if database.Redis != nil {
		payload, err := json.Marshal(event)
		if err != nil {
			return
		}
		if err := database.Redis.Publish(context.Background(), seatMapChannel, payload).Err(); err != nil {
			log.Printf("seatmap publish %d: %v", showtimeId, err)
			deliverSeatMap(event)
		}
		return
	}
	deliverSeatMap(event)
}

func deliverSeatMap(event seatMapEvent) {
	seatMapMu.Lock()
	conns := make([]*websocket.Conn, 0, len(seatMapClients[event.ShowtimeId]))
	for conn := range seatMapClients[event.ShowtimeId] {
		conns = append(conns, conn)
	}
	seatMapMu.Unlock()

	for _, conn := range conns {
		if err := conn.WriteJSON(event); err != nil {
			conn.Close()
		}
	}
}

// StartSeatMapRelay subscribes to the pub/sub channel and fans events
// out to this instance's websocket clients. No-op without redis.
func StartSeatMapRelay() {
	if database.Redis == nil {
		return
	}
	sub := database.Redis.Subscribe(context.Background(), seatMapChannel)
	go func() {
		for msg := range sub.Channel() {
			var event seatMapEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				continue
			}
			deliverSeatMap(event)
		}
	}()
}
