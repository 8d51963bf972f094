package web

import "strings"

func flashMessage(notice string) string {
	switch strings.TrimSpace(notice) {
	case "timer_initialized":
		return "Utworzono zegar meczu."
	case "timer_started":
		return "Zegar wystartował."
	case "timer_paused":
		return "Zegar zatrzymany."
	case "stoppage_set":
		return "Zapisano doliczony czas."
	case "period_advanced":
		return "Przejście do kolejnej fazy meczu."
	case "match_added":
		return "Dodano mecz."
	case "result_saved":
		return "Zapisano wynik."
	case "team_added":
		return "Dodano drużynę."
	case "news_added":
		return "Opublikowano aktualność."
	}
	return ""
}
