package handlers

import (
	"errors"
	"net/http"

	"yatube/auth"
	"yatube/logger"
	"yatube/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func Signup(c *gin.Context, user *models.User) {
	form := SignupForm{}
	errs := FormErrors{}
	if c.Request.Method == http.MethodPost {
		errs = bindForm(c, &form)
		if errs.Empty() {
			created, err := models.UserCreate(c.Request.Context(), form.Username, form.FirstName, form.LastName, form.Email, form.Password1)
			if errors.Is(err, models.ErrUsernameTaken) {
				errs.Add("username", "A user with that username already exists.")
			} else if err != nil {
				serverError(c, user, err)
				return
			} else {
				if err = auth.LoadSession(c).LoginUser(&created); err != nil {
					serverError(c, user, err)
					return
				}
				logger.Info("signed up", zap.Uint64("user", created.ID), zap.String("username", created.Username))
				c.Redirect(http.StatusFound, "/")
				return
			}
		}
	}
	render(c, http.StatusOK, "signup.tmpl", user, gin.H{
		"title":  "Sign up",
		"form":   form,
		"errors": errs,
	})
}

func Login(c *gin.Context, user *models.User) {
	form := LoginForm{Next: c.Query("next")}
	errs := FormErrors{}
	if c.Request.Method == http.MethodPost {
		errs = bindForm(c, &form)
		if errs.Empty() {
			loggedIn, err := models.UserLogin(c.Request.Context(), form.Username, form.Password)
			if errors.Is(err, models.ErrInvalidCredentials) {
				errs.Add("form", "Please enter a correct username and password. Note that both fields may be case-sensitive.")
			} else if err != nil {
				serverError(c, user, err)
				return
			} else {
				if err = auth.LoadSession(c).LoginUser(&loggedIn); err != nil {
					serverError(c, user, err)
					return
				}
				c.Redirect(http.StatusFound, auth.SafeNext(form.Next))
				return
			}
		}
	}
	render(c, http.StatusOK, "login.tmpl", user, gin.H{
		"title":  "Log in",
		"form":   form,
		"errors": errs,
		"next":   form.Next,
	})
}

func Logout(c *gin.Context, user *models.User) {
	auth.LoadSession(c).LogoutUser()
	render(c, http.StatusOK, "logged_out.tmpl", nil, gin.H{"title": "Logged out"})
}
