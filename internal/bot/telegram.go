package bot

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/Driftedboat/Bubbly-Insider/internal/domain"

	tele "gopkg.in/telebot.v3"
)

type DeckReader interface {
	GetTodaysDeck(ctx context.Context) (*domain.Deck, error)
	GetMarketPulse(ctx context.Context) (domain.MarketPulse, error)
}

const botDeckPreview = 5

func StartTelegramBot(decks DeckReader) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		log.Println("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return
	}
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		log.Fatalf("failed to create Telegram bot: %v", err)
	}

	b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})

	b.Handle("/deck", func(c tele.Context) error {
		deck, err := decks.GetTodaysDeck(context.Background())
		if err != nil {
			return c.Send(fmt.Sprintf("Error fetching deck: %v", err))
		}
		if deck == nil || len(deck.Cards) == 0 {
			return c.Send("No deck yet today. Try again in a bit.")
		}
		return c.Send(FormatDeck(deck))
	})

	b.Handle("/pulse", func(c tele.Context) error {
		pulse, err := decks.GetMarketPulse(context.Background())
		if err != nil {
			return c.Send(fmt.Sprintf("Error fetching market pulse: %v", err))
		}
		return c.Send(FormatPulse(pulse))
	})

	log.Println("Telegram bot started")
	go b.Start()
}

func FormatDeck(deck *domain.Deck) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Today's deck (%s), top %d of %d:\n",
		deck.DeckDate, min(botDeckPreview, len(deck.Cards)), len(deck.Cards)))

	for i, card := range deck.Cards {
		if i >= botDeckPreview {
			break
		}
		marker := "🟢"
		if card.BullBear == domain.Bear {
			marker = "🔴"
		}
		sb.WriteString(fmt.Sprintf("%d. %s %s [%s, %d%%]\n",
			i+1, marker, card.Headline, card.SourceBadge, card.Confidence))
	}
	return sb.String()
}

func FormatPulse(pulse domain.MarketPulse) string {
	if !pulse.HasData() {
		return "No market data currently available."
	}
	msg := fmt.Sprintf("BTC: $%.0f (24h: %+.2f%%)", pulse.BTCPrice, pulse.BTCChange24h)
	if pulse.ETHPrice > 0 {
		msg += fmt.Sprintf("\nETH: $%.0f (24h: %+.2f%%)", pulse.ETHPrice, pulse.ETHChange24h)
	}
	return msg
}
