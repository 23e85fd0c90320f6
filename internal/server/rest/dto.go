package rest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/dmitrijs2005/chatop/internal/common"
	"github.com/dmitrijs2005/chatop/internal/server/auth"
	"github.com/dmitrijs2005/chatop/internal/server/models"
	"github.com/dmitrijs2005/chatop/internal/server/services"
	"github.com/go-playground/validator/v10"
)

const maxJSONBody = 1 << 20

// --- requests ---

type registerRequest struct {
	Email    string `json:"email" validate:"notblank,email"`
	Name     string `json:"name" validate:"notblank,max=255"`
	Password string `json:"password" validate:"notblank,min=8,max=128"`
}

type loginRequest struct {
	Login    string `json:"login" validate:"notblank,email"`
	Password string `json:"password" validate:"notblank"`
}

type messageRequest struct {
	Message  string `json:"message" validate:"notblank"`
	UserID   *int64 `json:"user_id" validate:"required"`
	RentalID *int64 `json:"rental_id" validate:"required"`
}

type rentalForm struct {
	Name        string  `form:"name" validate:"notblank,max=255"`
	Surface     *int    `form:"surface" validate:"required,gt=0"`
	Price       *int    `form:"price" validate:"required,gt=0"`
	Description *string `form:"description"`
}

func (f *rentalForm) input() services.RentalInput {
	return services.RentalInput{
		Name:        strings.TrimSpace(f.Name),
		Surface:     *f.Surface,
		Price:       *f.Price,
		Description: f.Description,
	}
}

// --- responses ---

type userResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt}
}

type registerResponse struct {
	User userResponse      `json:"user"`
	Auth *auth.IssuedToken `json:"auth"`
}

type rentalResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Surface     int       `json:"surface"`
	Price       int       `json:"price"`
	Description *string   `json:"description"`
	PictureURL  string    `json:"pictureUrl"`
	OwnerID     int64     `json:"ownerId"`
	OwnerName   string    `json:"ownerName"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type pageResponse struct {
	Content       []rentalResponse `json:"content"`
	Page          int              `json:"page"`
	Size          int              `json:"size"`
	TotalElements int64            `json:"totalElements"`
	TotalPages    int              `json:"totalPages"`
}

type messageResponse struct {
	ID        int64     `json:"id"`
	Message   string    `json:"message"`
	RentalID  int64     `json:"rentalId"`
	UserID    int64     `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

func newMessageResponse(m *models.Message) messageResponse {
	return messageResponse{ID: m.ID, Message: m.Message, RentalID: m.RentalID, UserID: m.UserID, CreatedAt: m.CreatedAt}
}

// --- validation ---

// fieldMessages holds client text per "field.tag".
var fieldMessages = map[string]string{
	"email.notblank":     "Email is required",
	"email.email":        "Email must be valid",
	"name.notblank":      "Name is required",
	"name.max":           "Name must be at most 255 characters",
	"password.notblank":  "Password is required",
	"password.min":       "Password must be between 8 and 128 characters",
	"password.max":       "Password must be between 8 and 128 characters",
	"login.notblank":     "Login is required",
	"login.email":        "Login must be a valid email",
	"message.notblank":   "Message is required",
	"user_id.required":   "User id is required",
	"rental_id.required": "Rental id is required",
	"surface.required":   "Surface is required",
	"surface.gt":         "Surface must be positive",
	"price.required":     "Price is required",
	"price.gt":           "Price must be positive",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})

	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return v
}

// validateStruct runs the struct tags and turns failures into a
// *common.ValidationError keyed by wire field name.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, seen := fields[fe.Field()]; seen {
			continue
		}
		msg, ok := fieldMessages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = "is invalid"
		}
		fields[fe.Field()] = msg
	}
	return &common.ValidationError{Fields: fields}
}

// decodeJSON reads a bounded JSON body into dst and validates it.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return common.NewError(common.ErrBadRequest, "Request body is required")
		}
		return common.NewError(common.ErrBadRequest, "Malformed JSON request")
	}
	return validateStruct(dst)
}
