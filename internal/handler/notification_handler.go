package handler

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"pitchvault/internal/domain"
	"pitchvault/internal/middleware"
	"pitchvault/internal/service/notification"
	"pitchvault/internal/service/stream"
)

type NotificationHandler struct {
	notifService  notification.Service
	streamFactory *stream.Factory
}

func NewNotificationHandler(notifService notification.Service, streamFactory *stream.Factory) *NotificationHandler {
	return &NotificationHandler{notifService: notifService, streamFactory: streamFactory}
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	actorID, err := middleware.GetActorID(c)
	if err != nil {
		return err
	}

	query := domain.NotificationQuery{
		Kind:       c.Query("kind"),
		UnreadOnly: c.QueryBool("unread_only"),
	}

	result, err := h.notifService.List(c.Context(), actorID, query, getPaginationParams(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *NotificationHandler) GetUnreadCount(c *fiber.Ctx) error {
	actorID, err := middleware.GetActorID(c)
	if err != nil {
		return err
	}

	count, err := h.notifService.UnreadCount(c.Context(), actorID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"count": count,
	})
}

func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	actorID, err := middleware.GetActorID(c)
	if err != nil {
		return err
	}

	var input domain.MarkNotificationsInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	if err := h.notifService.MarkRead(c.Context(), actorID, input.IDs); err != nil {
		return err
	}

	return c.Status(fiber.StatusNoContent).SendString("")
}

func (h *NotificationHandler) Delete(c *fiber.Ctx) error {
	actorID, err := middleware.GetActorID(c)
	if err != nil {
		return err
	}

	var input domain.MarkNotificationsInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	if err := h.notifService.Delete(c.Context(), actorID, input.IDs); err != nil {
		return err
	}

	return c.Status(fiber.StatusNoContent).SendString("")
}

// keepalivePeriod bounds how long a dead connection can hold a session open:
// the only disconnect signal on a quiet stream is a failed write.
const keepalivePeriod = 15 * time.Second

// Stream serves the real-time feed as server-sent events. One session per
// connection; disconnect closes the session and stops all of its writes.
func (h *NotificationHandler) Stream(c *fiber.Ctx) error {
	actorID, err := middleware.GetActorID(c)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		sess := h.streamFactory.Open(context.Background(), actorID)
		defer sess.Close()

		keepalive := time.NewTicker(keepalivePeriod)
		defer keepalive.Stop()

		writeEvents(w, sess.Notifications(), keepalive.C)
	}))

	return nil
}

// writeEvents pumps notifications onto the SSE connection until the channel
// closes or a write fails. Keepalive ticks emit an SSE comment ping so an
// idle disconnected client still fails a write and tears the session down.
func writeEvents(w *bufio.Writer, events <-chan domain.Notification, keepalive <-chan time.Time) {
	for {
		select {
		case n, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(n)
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				return
			}
		case <-keepalive:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				return
			}
		}
	}
}
