package raffle

import (
	"context"
	"fmt"

	"solyx/bot/common"
)

// AnnounceWinners posts the outcome of a draw to the raffle's channel. Used
// by the event subscription so sweep-triggered draws get announced the same
// way as manual ones.
func (f *Feature) AnnounceWinners(ctx context.Context, channelID int64, title string, winnerIDs []int64) error {
	_, err := f.session.ChannelMessageSend(common.FormatID(channelID), formatWinners(title, winnerIDs))
	if err != nil {
		return fmt.Errorf("failed to announce raffle winners: %w", err)
	}
	return nil
}
