package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type PostForm struct {
	Text  string `form:"text" binding:"required"`
	Group string `form:"group"`
	Image string `form:"-"` // current image, uploads come in as files
}

type CommentForm struct {
	Text string `form:"text" binding:"required"`
}

type SignupForm struct {
	FirstName string `form:"first_name" binding:"max=150"`
	LastName  string `form:"last_name" binding:"max=150"`
	Username  string `form:"username" binding:"required,max=150,username"`
	Email     string `form:"email" binding:"omitempty,email,max=254"`
	Password1 string `form:"password1" binding:"required,min=8"`
	Password2 string `form:"password2" binding:"required,eqfield=Password1"`
}

type LoginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
	Next     string `form:"next"`
}

type GroupForm struct {
	Title       string `form:"title" binding:"required,max=200"`
	Slug        string `form:"slug" binding:"required,max=50"`
	Description string `form:"description"`
}

// FormErrors are the messages per form field, "form" holds the non-field ones
type FormErrors map[string][]string

func (e FormErrors) Add(field, message string) {
	e[field] = append(e[field], message)
}

func (e FormErrors) Empty() bool {
	return len(e) == 0
}

const (
	msgRequired      = "This field is required."
	msgInvalidChoice = "Select a valid choice. That choice is not one of the available choices."
	msgInvalidImage  = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."
)

func init() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	// error fields are reported by their form names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		for _, r := range fl.Field().String() {
			if !(r == '@' || r == '.' || r == '+' || r == '-' || r == '_' ||
				(r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')) {
				return false
			}
		}
		return true
	})
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return msgRequired
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
	case "min":
		return fmt.Sprintf("Ensure this value has at least %s characters.", fe.Param())
	case "email":
		return "Enter a valid email address."
	case "eqfield":
		return "The two password fields didn't match."
	case "username":
		return "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	}
	return fmt.Sprintf("Invalid value (%s).", fe.Tag())
}

// bindForm fills form from the request and reports what failed validation
func bindForm(c *gin.Context, form any) FormErrors {
	if err := c.ShouldBind(form); err != nil {
		return bindErrors(err)
	}
	return FormErrors{}
}

func bindErrors(err error) FormErrors {
	errs := FormErrors{}
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, fe := range validationErrors {
			errs.Add(fe.Field(), message(fe))
		}
		return errs
	}
	errs.Add("form", err.Error())
	return errs
}

// requireText flags whitespace only input, which passes "required"
func requireText(errs FormErrors, field string, text *string) {
	*text = strings.TrimSpace(*text)
	if *text == "" && len(errs[field]) == 0 {
		errs.Add(field, msgRequired)
	}
}
