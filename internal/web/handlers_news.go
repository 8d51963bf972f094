package web

import (
	"net/http"
	"sort"
	"strings"

	"matchday-app/internal/model"

	"github.com/go-chi/chi/v5"
)

func (s *Server) newsPostViews(posts []model.NewsPost) []NewsPostView {
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	views := make([]NewsPostView, 0, len(posts))
	for _, post := range posts {
		author, _ := s.store.GetUser(post.AuthorID)
		views = append(views, NewsPostView{
			Post:        post,
			Author:      author,
			CreatedText: post.CreatedAt.Format("02.01.2006"),
		})
	}
	return views
}

func (s *Server) handleNewsList(w http.ResponseWriter, r *http.Request) {
	view := NewsListView{
		BaseView: s.baseView(r, "Aktualności"),
		Posts:    s.newsPostViews(s.store.ListNewsPosts()),
	}
	if err := s.templates.Render(w, "news.html", view); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleNewsShow(w http.ResponseWriter, r *http.Request) {
	post, ok := s.store.GetNewsPost(chi.URLParam(r, "postID"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	author, _ := s.store.GetUser(post.AuthorID)
	view := NewsDetailView{
		BaseView: s.baseView(r, post.Title),
		Post: NewsPostView{
			Post:        post,
			Author:      author,
			CreatedText: post.CreatedAt.Format("02.01.2006"),
		},
	}
	if err := s.templates.Render(w, "news_show.html", view); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleNewsNew(w http.ResponseWriter, r *http.Request) {
	view := NewsFormView{BaseView: s.baseView(r, "Nowa aktualność")}
	if err := s.templates.Render(w, "news_new.html", view); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleNewsCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "nieprawidłowe dane", http.StatusBadRequest)
		return
	}

	renderError := func(message string) {
		view := NewsFormView{
			BaseView: s.baseView(r, "Nowa aktualność"),
			Error:    message,
		}
		if err := s.templates.Render(w, "news_new.html", view); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}

	title := strings.TrimSpace(r.FormValue("title"))
	body := strings.TrimSpace(r.FormValue("body"))
	if title == "" || body == "" {
		renderError("Wypełnij tytuł i treść")
		return
	}

	post := model.NewsPost{
		AuthorID: s.currentUser(r).ID,
		Title:    title,
		Body:     body,
	}
	if _, err := s.store.CreateNewsPost(post); err != nil {
		renderError("Nie można opublikować: " + err.Error())
		return
	}
	http.Redirect(w, r, "/news?notice=news_added", http.StatusSeeOther)
}
