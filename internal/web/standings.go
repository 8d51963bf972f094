package web

import (
	"sort"

	"matchday-app/internal/model"
)

// BuildStandings tallies finished matches into a league table. Three points
// for a win, one for a draw. Ties are broken by goal difference, then goals
// scored, then name.
func BuildStandings(teams []model.Team, matches []model.Match) []StandingEntry {
	index := make(map[string]*StandingEntry)
	for _, t := range teams {
		entry := &StandingEntry{Team: t}
		index[t.ID] = entry
	}

	for _, match := range matches {
		if match.Status != model.MatchFinished {
			continue
		}
		home := index[match.HomeTeamID]
		away := index[match.AwayTeamID]
		if home == nil || away == nil {
			continue
		}
		home.Played++
		away.Played++
		home.GoalsFor += match.HomeGoals
		home.GoalsAgainst += match.AwayGoals
		away.GoalsFor += match.AwayGoals
		away.GoalsAgainst += match.HomeGoals

		switch {
		case match.HomeGoals > match.AwayGoals:
			home.Wins++
			home.Points += 3
			away.Losses++
		case match.HomeGoals < match.AwayGoals:
			away.Wins++
			away.Points += 3
			home.Losses++
		default:
			home.Draws++
			away.Draws++
			home.Points++
			away.Points++
		}
	}

	standings := make([]StandingEntry, 0, len(teams))
	for _, entry := range index {
		standings = append(standings, *entry)
	}
	sort.Slice(standings, func(i, j int) bool {
		if standings[i].Points == standings[j].Points {
			if standings[i].GoalDifference() == standings[j].GoalDifference() {
				if standings[i].GoalsFor == standings[j].GoalsFor {
					return standings[i].Team.Name < standings[j].Team.Name
				}
				return standings[i].GoalsFor > standings[j].GoalsFor
			}
			return standings[i].GoalDifference() > standings[j].GoalDifference()
		}
		return standings[i].Points > standings[j].Points
	})
	for i := range standings {
		standings[i].Position = i + 1
	}
	return standings
}
