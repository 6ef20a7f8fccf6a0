// Package telegram is the Telegram front end of the chat hub. It maps bot
// commands and messages onto the same inbound events the websocket front end
// produces, so a Telegram user and a browser user can end up paired with
// each other.
package telegram

import (
	"fmt"
	"io"
	"log"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"pairchat/backend/internal/chathub"
	"pairchat/backend/internal/models"
)

const welcomeText = `👋 Welcome to anonymous chat.
/new — find a partner
/end — end the current chat
/stop — leave the service`

// BotService receives Telegram updates and routes them into the hub.
type BotService struct {
	BotAPI      *tgbotapi.BotAPI
	Coordinator *chathub.Coordinator

	// clients is touched only from the update loop goroutine.
	clients map[int64]*Client
}

// NewBotService authorizes the bot.
func NewBotService(token string, co *chathub.Coordinator) (*BotService, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	bot.Debug = false
	log.Printf("authorized on telegram account %s", bot.Self.UserName)

	return &BotService{
		BotAPI:      bot,
		Coordinator: co,
		clients:     make(map[int64]*Client),
	}, nil
}

// Run is the long-poll update loop.
func (s *BotService) Run() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	for update := range s.BotAPI.GetUpdatesChan(u) {
		s.handleUpdate(update)
	}
}

func anonIDFor(chatID int64) string {
	return fmt.Sprintf("tg:%d", chatID)
}

func (s *BotService) handleUpdate(update tgbotapi.Update) {
	msg := update.Message
	if msg == nil {
		return
	}
	chatID := msg.Chat.ID

	if msg.IsCommand() {
		s.handleCommand(chatID, msg.Command())
		return
	}

	client, ok := s.clients[chatID]
	if !ok {
		s.reply(chatID, "Send /start first.")
		return
	}

	switch {
	case msg.Document != nil:
		s.relayDocument(client, msg.Document)
	case msg.Text != "":
		s.Coordinator.Dispatch(client.AnonID, models.ClientEvent{
			Type: models.EventMessage,
			Text: msg.Text,
		})
	default:
		s.reply(chatID, "⚠️ Only text and documents can be relayed.")
	}
}

func (s *BotService) handleCommand(chatID int64, command string) {
	switch command {
	case "start":
		s.getOrCreateClient(chatID)
		s.reply(chatID, welcomeText)
	case "new":
		client := s.getOrCreateClient(chatID)
		s.Coordinator.Dispatch(client.AnonID, models.ClientEvent{Type: models.EventNewChat})
	case "end":
		if client, ok := s.clients[chatID]; ok {
			s.Coordinator.Dispatch(client.AnonID, models.ClientEvent{Type: models.EventEndChat})
			s.reply(chatID, "🚪 Chat ended. /new finds the next partner.")
		}
	case "stop":
		if client, ok := s.clients[chatID]; ok {
			delete(s.clients, chatID)
			s.Coordinator.Disconnect(client.AnonID)
			s.reply(chatID, "Bye. /start brings you back.")
		}
	default:
		s.reply(chatID, welcomeText)
	}
}

// getOrCreateClient returns the live client for the chat, registering a
// fresh one with the hub when needed.
func (s *BotService) getOrCreateClient(chatID int64) *Client {
	if client, ok := s.clients[chatID]; ok {
		return client
	}
	client := newClient(anonIDFor(chatID), chatID, s.BotAPI)
	s.clients[chatID] = client
	s.Coordinator.Register(client)
	client.Run()
	return client
}

// relayDocument fetches the uploaded file from Telegram and relays the raw
// bytes, so a browser partner receives it like any other file message.
func (s *BotService) relayDocument(client *Client, doc *tgbotapi.Document) {
	url, err := s.BotAPI.GetFileDirectURL(doc.FileID)
	if err != nil {
		log.Printf("failed to resolve telegram file %s: %v", doc.FileID, err)
		return
	}
	resp, err := http.Get(url)
	if err != nil {
		log.Printf("failed to download telegram file %s: %v", doc.FileID, err)
		return
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("failed to read telegram file %s: %v", doc.FileID, err)
		return
	}

	s.Coordinator.Dispatch(client.AnonID, models.ClientEvent{
		Type: models.EventFile,
		File: &models.FilePayload{
			Name:     doc.FileName,
			MimeType: doc.MimeType,
			Content:  data,
		},
	})
}

func (s *BotService) reply(chatID int64, text string) {
	if _, err := s.BotAPI.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Printf("failed to reply to chat %d: %v", chatID, err)
	}
}
