package analytics

import (
	"sort"

	"github.com/kalstad/office-pong/internal/ladder"
)

// Rivalry is a head-to-head pairing. PlayerA is the leading participant
// (at least as many wins as losses) and Games holds [winsA, winsB].
type Rivalry struct {
	PlayerA string `json:"playerA"`
	PlayerB string `json:"playerB"`
	Games   [2]int `json:"games"`
}

type headToHead struct {
	wins   int
	losses int
}

type scoredRivalry struct {
	playerID   string
	playerName string
	opponentID string
	opponent   string
	record     headToHead
	score      float64
}

// rivalryScore weighs game volume against how one-sided the pairing is.
// Close rivalries with many games score highest; a lopsided record drags the
// score down no matter the volume. An alternate historical formula
// (-10*|w-l|/total + total/140) produced near-identical rankings and was
// dropped in favor of this one.
func rivalryScore(wins, losses int) float64 {
	total := float64(wins + losses)
	diff := wins - losses
	if diff < 0 {
		diff = -diff
	}
	return total - (float64(diff+1)*total)/5
}

// TopRivalries returns the office's three most intense rivalries. Pairings
// need more than minGames total games to qualify. Symmetric duplicates
// (A-vs-B seen from both sides) are collapsed, keeping the higher score.
func TopRivalries(players []ladder.Player, matches []ladder.Match, minGames int) []Rivalry {
	var all []scoredRivalry
	for _, player := range players {
		all = append(all, topRivalriesFor(player, matches, minGames)...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].score > all[j].score
	})

	var final []Rivalry
	seen := make(map[[2]string]bool)
	for _, r := range all {
		key := [2]string{r.playerID, r.opponentID}
		if r.opponentID < r.playerID {
			key = [2]string{r.opponentID, r.playerID}
		}
		if seen[key] {
			continue
		}
		seen[key] = true

		rivalry := Rivalry{PlayerA: r.playerName, PlayerB: r.opponent, Games: [2]int{r.record.wins, r.record.losses}}
		if r.record.losses > r.record.wins {
			rivalry = Rivalry{PlayerA: r.opponent, PlayerB: r.playerName, Games: [2]int{r.record.losses, r.record.wins}}
		}
		final = append(final, rivalry)
		if len(final) == 3 {
			break
		}
	}
	return final
}

// topRivalriesFor scores one player's pairings and keeps their top three.
func topRivalriesFor(player ladder.Player, matches []ladder.Match, minGames int) []scoredRivalry {
	records := make(map[string]*headToHead)
	names := make(map[string]string)

	for _, m := range playerMatches(player.ID, matches) {
		opponentID, opponentName := m.LoserID, m.LoserName
		won := m.WinnerID == player.ID
		if !won {
			opponentID, opponentName = m.WinnerID, m.WinnerName
		}
		if _, ok := records[opponentID]; !ok {
			records[opponentID] = &headToHead{}
		}
		names[opponentID] = opponentName
		if won {
			records[opponentID].wins++
		} else {
			records[opponentID].losses++
		}
	}

	var scored []scoredRivalry
	for opponentID, record := range records {
		if record.wins+record.losses <= minGames {
			continue
		}
		scored = append(scored, scoredRivalry{
			playerID:   player.ID,
			playerName: player.Name,
			opponentID: opponentID,
			opponent:   names[opponentID],
			record:     *record,
			score:      rivalryScore(record.wins, record.losses),
		})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	if len(scored) > 3 {
		scored = scored[:3]
	}
	return scored
}
