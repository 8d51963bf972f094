package web

import (
	"testing"

	"matchday-app/internal/model"
)

func TestBuildStandings(t *testing.T) {
	teams := []model.Team{
		{ID: "a", Name: "Alfa"},
		{ID: "b", Name: "Beta"},
		{ID: "c", Name: "Gamma"},
	}
	matches := []model.Match{
		{HomeTeamID: "a", AwayTeamID: "b", HomeGoals: 2, AwayGoals: 0, Status: model.MatchFinished},
		{HomeTeamID: "b", AwayTeamID: "c", HomeGoals: 1, AwayGoals: 1, Status: model.MatchFinished},
		{HomeTeamID: "c", AwayTeamID: "a", HomeGoals: 0, AwayGoals: 3, Status: model.MatchFinished},
		// Live and scheduled matches must not count.
		{HomeTeamID: "a", AwayTeamID: "c", HomeGoals: 5, AwayGoals: 0, Status: model.MatchLive},
		{HomeTeamID: "b", AwayTeamID: "a", Status: model.MatchScheduled},
	}

	standings := BuildStandings(teams, matches)
	if len(standings) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(standings))
	}

	first := standings[0]
	if first.Team.ID != "a" {
		t.Fatalf("expected Alfa on top, got %s", first.Team.Name)
	}
	if first.Points != 6 || first.Wins != 2 || first.Played != 2 {
		t.Errorf("Alfa: points=%d wins=%d played=%d", first.Points, first.Wins, first.Played)
	}
	if first.GoalsFor != 5 || first.GoalsAgainst != 0 {
		t.Errorf("Alfa goals: %d:%d", first.GoalsFor, first.GoalsAgainst)
	}

	// Beta and Gamma are level on points; Beta's better goal difference
	// decides second place.
	if standings[1].Team.ID != "b" || standings[2].Team.ID != "c" {
		t.Fatalf("expected Beta then Gamma, got %s then %s", standings[1].Team.Name, standings[2].Team.Name)
	}
	if standings[1].Points != 1 || standings[2].Points != 1 {
		t.Errorf("expected one point each, got %d and %d", standings[1].Points, standings[2].Points)
	}
}

func TestBuildStandingsSkipsUnknownTeams(t *testing.T) {
	teams := []model.Team{{ID: "a", Name: "Alfa"}}
	matches := []model.Match{
		{HomeTeamID: "a", AwayTeamID: "ghost", HomeGoals: 1, AwayGoals: 0, Status: model.MatchFinished},
	}

	standings := BuildStandings(teams, matches)
	if len(standings) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(standings))
	}
	if standings[0].Played != 0 {
		t.Error("match against unknown team must not count")
	}
}
