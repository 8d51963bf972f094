package web

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"matchday-app/internal/model"

	"golang.org/x/crypto/bcrypt"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	view := AuthView{BaseView: s.baseView(r, "Logowanie")}
	if err := s.templates.Render(w, "login.html", view); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "nieprawidłowe dane", http.StatusBadRequest)
		return
	}
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	user, ok := s.store.GetUserByEmail(email)
	if !ok || !checkPassword(user.PasswordHash, password) {
		view := AuthView{
			BaseView: s.baseView(r, "Logowanie"),
			Error:    "Nieprawidłowy email lub hasło",
		}
		if err := s.templates.Render(w, "login.html", view); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	setAuthCookie(w, user.ID)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	view := AuthView{BaseView: s.baseView(r, "Rejestracja")}
	if err := s.templates.Render(w, "register.html", view); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleRegisterPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "nieprawidłowe dane", http.StatusBadRequest)
		return
	}
	firstName := strings.TrimSpace(r.FormValue("first_name"))
	lastName := strings.TrimSpace(r.FormValue("last_name"))
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	confirmPassword := r.FormValue("password_confirm")

	renderError := func(message string) {
		view := AuthView{
			BaseView: s.baseView(r, "Rejestracja"),
			Error:    message,
		}
		if err := s.templates.Render(w, "register.html", view); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}

	if firstName == "" || lastName == "" || email == "" || password == "" {
		renderError("Wypełnij wszystkie pola")
		return
	}
	if len(password) < 8 {
		renderError("Hasło musi mieć min. 8 znaków")
		return
	}
	if !containsUppercase(password) {
		renderError("Hasło musi zawierać jedną dużą literę")
		return
	}
	if password != confirmPassword {
		renderError("Hasła nie są takie same")
		return
	}

	user := model.User{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: hashUserPassword(password),
		AvatarURL:    "https://i.pravatar.cc/100?u=" + url.QueryEscape(email),
		Role:         model.RoleUser,
	}
	created, err := s.store.CreateUser(user)
	if err != nil {
		renderError("Nie można utworzyć konta: " + err.Error())
		return
	}
	setAuthCookie(w, created.ID)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	clearAuthCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func containsUppercase(value string) bool {
	for _, r := range value {
		if r >= 'A' && r <= 'Z' {
			return true
		}
	}
	return false
}

func (s *Server) currentUser(r *http.Request) model.User {
	cookie, err := r.Cookie(userCookieName)
	if err == nil {
		if user, ok := s.store.GetUser(cookie.Value); ok {
			return user
		}
	}
	return model.User{}
}

func setAuthCookie(w http.ResponseWriter, userID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     userCookieName,
		Value:    userID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(365 * 24 * time.Hour),
	})
}

func clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     userCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func hashUserPassword(password string) string {
	if password == "" {
		return ""
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return ""
	}
	return string(hash)
}

func checkPassword(hash string, password string) bool {
	if hash == "" || password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
