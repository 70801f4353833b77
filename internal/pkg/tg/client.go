package tg_client

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Config struct {
	Enabled     bool   `yaml:"enabled" env:"TG_ENABLED" env-default:"false"`
	Token       string `yaml:"token" env:"TG_TOKEN"`
	ChatID      int64  `yaml:"chat_id" env:"TG_CHAT_ID"`
	APIEndpoint string `yaml:"api_endpoint" env:"TG_API_ENDPOINT" env-default:"https://api.telegram.org/bot%s/%s"`
}

func NewBot(token, endpoint string) (*tgbotapi.BotAPI, error) {
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}

	bot, err := tgbotapi.NewBotAPIWithAPIEndpoint(token, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	return bot, nil
}

type Client struct {
	bot    *tgbotapi.BotAPI
	chatId int64
}

func New(bot *tgbotapi.BotAPI, chatId int64) *Client {
	return &Client{
		bot:    bot,
		chatId: chatId,
	}
}

func (c *Client) SendMessage(message string) error {
	msg := tgbotapi.NewMessage(c.chatId, message)

	if _, err := c.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}

	return nil
}
