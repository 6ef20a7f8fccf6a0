package telegram

import (
	"log"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"pairchat/backend/internal/chathub"
	"pairchat/backend/internal/models"
)

// Client implements chathub.Client over a Telegram chat. The connection id
// is the prefixed chat id; it stays stable for as long as the user keeps the
// bot session open with /start.
type Client struct {
	AnonID string
	ChatID int64
	BotAPI *tgbotapi.BotAPI
	Send   chan models.ServerEvent

	// done stops the write pump; the Send channel is never closed so hub
	// deliveries can't race a close.
	done     chan struct{}
	shutdown sync.Once
}

func newClient(anonID string, chatID int64, bot *tgbotapi.BotAPI) *Client {
	return &Client{
		AnonID: anonID,
		ChatID: chatID,
		BotAPI: bot,
		Send:   make(chan models.ServerEvent, chathub.SendBufferSize),
		done:   make(chan struct{}),
	}
}

func (c *Client) GetAnonID() string { return c.AnonID }
func (c *Client) GetSendChannel() chan<- models.ServerEvent {
	return c.Send
}

// Run starts the write pump. Reads are handled centrally by the bot
// service's update loop.
func (c *Client) Run() {
	go c.writePump()
}

// Close stops the write pump.
func (c *Client) Close() {
	c.shutdown.Do(func() { close(c.done) })
}

// writePump drains the Send channel into the Telegram chat. Telegram shows a
// user their own sent messages natively, so self-echoed relays are skipped
// here instead of in the hub.
func (c *Client) writePump() {
	for {
		var ev models.ServerEvent
		select {
		case <-c.done:
			log.Printf("write pump stopped for telegram client %s", c.AnonID)
			return
		case ev = <-c.Send:
		}

		var out tgbotapi.Chattable

		switch ev.Type {
		case models.EventPaired:
			out = tgbotapi.NewMessage(c.ChatID, "✅ Partner found! Say hi. /end leaves the chat.")

		case models.EventMessage:
			if ev.Sender == c.AnonID {
				continue
			}
			text := ev.Text
			if ev.Sender != models.SystemSender {
				text = "💬 " + text
			}
			out = tgbotapi.NewMessage(c.ChatID, text)

		case models.EventFileMessage:
			if ev.Sender == c.AnonID || ev.File == nil {
				continue
			}
			doc := tgbotapi.NewDocument(c.ChatID, tgbotapi.FileBytes{
				Name:  ev.File.Name,
				Bytes: ev.File.Content,
			})
			out = doc

		case models.EventTyping:
			if !ev.Typing {
				continue
			}
			// Chat actions are not messages; Send would choke on the response.
			action := tgbotapi.NewChatAction(c.ChatID, tgbotapi.ChatTyping)
			if _, err := c.BotAPI.Request(action); err != nil {
				log.Printf("failed to send chat action to %s: %v", c.AnonID, err)
			}
			continue

		case models.EventError:
			out = tgbotapi.NewMessage(c.ChatID, "⚠️ "+ev.Text)

		default:
			log.Printf("unhandled event type %q for telegram client %s", ev.Type, c.AnonID)
			continue
		}

		if _, err := c.BotAPI.Send(out); err != nil {
			log.Printf("failed to send telegram message to %s: %v", c.AnonID, err)
		}
	}
}
