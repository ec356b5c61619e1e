package slack

import (
	"fmt"
	"strings"

	"github.com/mkrogh/courtside/internal/game"
	"github.com/mkrogh/courtside/internal/occupancy"
	"github.com/mkrogh/courtside/internal/profile"
	"github.com/samber/lo"
	"github.com/slack-go/slack"
)

func gameDetails(g *game.Game) string {
	matchType := "Singles"
	if g.MatchType == game.MatchTypeDoubles {
		matchType = "Doubles"
	}
	return fmt.Sprintf("%s on %s at %s", matchType, g.Date, g.StartTime)
}

func (s *Notifier) formatApplicationReceived(applicant profile.Player, g *game.Game, snap occupancy.Snapshot) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🎾 New application for your game!", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	detailsText := fmt.Sprintf("%s\nFrom: %s\nPlayers: %d of %d", gameDetails(g), applicant.Name, snap.Occupied, snap.Capacity)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	contextText := slack.NewTextBlockObject("plain_text", "Accept or reject it from your pending applications.", true, false)
	blocks = append(blocks, slack.NewContextBlock("", contextText))

	return slack.NewBlockMessage(blocks...)
}

func (s *Notifier) formatApplicationAccepted(g *game.Game, roster []profile.Player, snap occupancy.Snapshot) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "✅ You're in!", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	detailsText := fmt.Sprintf("%s\nPlayers: %d of %d", gameDetails(g), snap.Occupied, snap.Capacity)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	lines := lo.Map(roster, func(p profile.Player, _ int) string {
		if p.Contact != "" {
			return fmt.Sprintf("• %s (<@%s>)", p.Name, p.Contact)
		}
		return fmt.Sprintf("• %s", p.Name)
	})
	if len(lines) > 0 {
		rosterText := "Confirmed players:\n" + strings.Join(lines, "\n")
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, rosterText, false, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}

func (s *Notifier) formatCreatorAccepted(newcomer profile.Player, g *game.Game, snap occupancy.Snapshot) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "✅ Application accepted", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	name := newcomer.Name
	if newcomer.Contact != "" {
		name = fmt.Sprintf("%s (<@%s>)", newcomer.Name, newcomer.Contact)
	}
	detailsText := fmt.Sprintf("%s joined your game.\n%s\nPlayers: %d of %d", name, gameDetails(g), snap.Occupied, snap.Capacity)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, detailsText, false, false), nil, nil))

	return slack.NewBlockMessage(blocks...)
}

func (s *Notifier) formatParticipantJoined(newcomer profile.Player, g *game.Game) slack.Message {
	blocks := make([]slack.Block, 0)

	name := newcomer.Name
	if newcomer.Contact != "" {
		name = fmt.Sprintf("%s (<@%s>)", newcomer.Name, newcomer.Contact)
	}
	text := fmt.Sprintf("🎾 %s joined your game.\n%s", name, gameDetails(g))
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, text, false, false), nil, nil))

	return slack.NewBlockMessage(blocks...)
}

func (s *Notifier) formatApplicationRejected(g *game.Game) slack.Message {
	blocks := make([]slack.Block, 0)

	text := fmt.Sprintf("❌ Your application was not accepted this time.\n%s", gameDetails(g))
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", text, true, false), nil, nil))

	return slack.NewBlockMessage(blocks...)
}

func (s *Notifier) formatGameCancelled(g *game.Game) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🚫 Game cancelled", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	text := fmt.Sprintf("The creator cancelled the game.\n%s", gameDetails(g))
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", text, true, false), nil, nil))

	return slack.NewBlockMessage(blocks...)
}
