// Package results turns the flat vote tuples of a results snapshot into the
// grouped, ranked structure the results screen displays. It is pure: no
// side effects, no I/O.
package results

import (
	"fmt"
	"sort"

	"github.com/mcdev12/partyquiz/go/internal/protocol"
)

// Group is the set of voters who chose one answer, with that answer's bonus.
// Winning reflects the bonus only, never the sort position.
type Group struct {
	Answer  string
	Bonus   int
	Voters  []string
	Winning bool
}

// Breakdown is the full ranked results display for one question.
type Breakdown struct {
	Groups     []Group
	Unanswered []string
}

// Aggregate builds one group per answer in original order, assigns each vote
// in input order, then stable-sorts the groups by voter count descending.
// Most popular answers come first to build suspense; the Winning flag, not
// position, marks the correct one.
func Aggregate(answers []string, votes []protocol.VoteRecord) Breakdown {
	groups := make([]Group, len(answers))
	for i, answer := range answers {
		groups[i] = Group{Answer: answer}
	}

	var unanswered []string
	for _, v := range votes {
		if v.Answer < 0 || v.Answer >= len(answers) {
			unanswered = append(unanswered, v.Voter)
			continue
		}
		g := &groups[v.Answer]

		entry := v.Voter
		if v.Delta < 0 {
			// Penalties ride along on the voter entry itself, e.g. "bob -2".
			entry = fmt.Sprintf("%s %d", v.Voter, v.Delta)
		}
		g.Voters = append(g.Voters, entry)

		if v.Delta > 0 {
			// At most one positive delta per answer is expected (the correct
			// answer's bonus); if the server ever sends more, this is
			// last-write-wins by vote order.
			g.Bonus = v.Delta
		}
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return len(groups[i].Voters) > len(groups[j].Voters)
	})

	for i := range groups {
		groups[i].Winning = groups[i].Bonus > 0
	}

	return Breakdown{Groups: groups, Unanswered: unanswered}
}
