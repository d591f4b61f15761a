package core

import (
	"context"

	"github.com/khedut-saathi/khedut/internal/channel"
	"github.com/khedut-saathi/khedut/internal/exchange"
)

// Ask runs a single exchange synchronously through the same transitions the
// chat service uses. The returned exchange is always settled unless the
// input was rejected, in which case the rejection error is returned.
func Ask(ctx context.Context, ch channel.Channel, text string) (exchange.Exchange, error) {
	log := exchange.NewLog(exchange.SingleFlight)
	ex, err := log.Submit(text)
	if err != nil {
		return exchange.Exchange{}, err
	}

	answer, sendErr := ch.Send(ctx, ex.Utterance)
	settled, _, err := log.Resolve(ex.ID, exchange.Outcome{Answer: answer, Err: sendErr})
	if err != nil {
		return exchange.Exchange{}, err
	}
	return settled, nil
}
