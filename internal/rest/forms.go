package rest

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dfryer1193/catalog/catalog/domain"
	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const (
	fieldProductName = "product_name"
	fieldDetails     = "details"
	fieldSize        = "size"
	fieldColor       = "color"
	fieldCategory    = "category"
	fieldImage       = "image"

	maxImageKB = 2048
)

// productFieldOrder is the order errors and form values are reported in
var productFieldOrder = []string{fieldProductName, fieldDetails, fieldSize, fieldColor, fieldCategory}

var productRules = map[string]string{
	fieldProductName: "required,min=3,max=255",
	fieldDetails:     "required,min=10",
	fieldSize:        "required",
	fieldColor:       "required",
	fieldCategory:    "required",
}

var (
	allowedImageExtensions = []string{"jpg", "png", "jpeg"}
	allowedImageTypes      = []string{"image/jpeg", "image/png"}
)

var errUnreadableBody = errors.New("request body could not be read")

// productInput is what a client submitted for a product. Absent fields are
// not in values, which is how partial API updates keep stored values.
type productInput struct {
	values map[string]string
	image  *multipart.FileHeader
	upload *domain.ImageUpload
}

type productJSON struct {
	ProductName *string `json:"product_name"`
	Details     *string `json:"details"`
	Size        *string `json:"size"`
	Color       *string `json:"color"`
	Category    *string `json:"category"`
}

// readProductInput collects product fields from a JSON, urlencoded or multipart body.
// Values are trimmed of surrounding whitespace.
func readProductInput(c *gin.Context) (*productInput, error) {
	in := &productInput{values: make(map[string]string)}

	if c.ContentType() == gin.MIMEJSON {
		var body productJSON
		if err := c.ShouldBindJSON(&body); err != nil {
			return nil, fmt.Errorf("%w: %v", errUnreadableBody, err)
		}
		for name, value := range map[string]*string{
			fieldProductName: body.ProductName,
			fieldDetails:     body.Details,
			fieldSize:        body.Size,
			fieldColor:       body.Color,
			fieldCategory:    body.Category,
		} {
			if value != nil {
				in.values[name] = strings.TrimSpace(*value)
			}
		}
		return in, nil
	}

	for _, name := range productFieldOrder {
		if value, ok := c.GetPostForm(name); ok {
			in.values[name] = strings.TrimSpace(value)
		}
	}

	file, err := c.FormFile(fieldImage)
	switch {
	case err == nil:
		in.image = file
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		return nil, fmt.Errorf("%w: %v", errUnreadableBody, err)
	}

	return in, nil
}

// value returns the submitted value of a field, or "" when absent
func (in *productInput) value(name string) string {
	return in.values[name]
}

func (in *productInput) fields() domain.ProductFields {
	return domain.ProductFields{
		ProductName: in.value(fieldProductName),
		Details:     in.value(fieldDetails),
		Size:        in.value(fieldSize),
		Color:       in.value(fieldColor),
		Category:    in.value(fieldCategory),
	}
}

func (in *productInput) changes() domain.ProductChanges {
	var changes domain.ProductChanges
	targets := map[string]*domain.Optional[string]{
		fieldProductName: &changes.ProductName,
		fieldDetails:     &changes.Details,
		fieldSize:        &changes.Size,
		fieldColor:       &changes.Color,
		fieldCategory:    &changes.Category,
	}
	for name, value := range in.values {
		if target, ok := targets[name]; ok {
			*target = domain.Some(value)
		}
	}
	return changes
}

type productValidator struct {
	validate *validator.Validate
}

func newProductValidator() *productValidator {
	return &productValidator{validate: validator.New()}
}

// Validate checks the submitted values and the uploaded image, loading the
// image into in.upload when it passes. With partial set only submitted
// fields are checked.
func (v *productValidator) Validate(in *productInput, partial bool) map[string]string {
	errs := make(map[string]string)

	for _, name := range productFieldOrder {
		value, present := in.values[name]
		if partial && !present {
			continue
		}

		if err := v.validate.Var(value, productRules[name]); err != nil {
			errs[name] = validationMessage(name, err)
		}
	}

	if in.image != nil {
		upload, msg := readImage(in.image)
		if msg != "" {
			errs[fieldImage] = msg
		} else {
			in.upload = upload
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func validationMessage(field string, err error) string {
	label := strings.ReplaceAll(field, "_", " ")

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Sprintf("The %s is invalid.", label)
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", label)
	case "min":
		return fmt.Sprintf("The %s must be at least %s characters.", label, fe.Param())
	case "max":
		return fmt.Sprintf("The %s may not be greater than %s characters.", label, fe.Param())
	default:
		return fmt.Sprintf("The %s is invalid.", label)
	}
}

// readImage enforces the upload rules and returns the file contents, or a
// message describing the first rule it breaks
func readImage(header *multipart.FileHeader) (*domain.ImageUpload, string) {
	typeMessage := fmt.Sprintf("The image must be a file of type: %s.", strings.Join(allowedImageExtensions, ", "))

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(header.Filename), "."))
	if !slices.Contains(allowedImageExtensions, ext) {
		return nil, typeMessage
	}

	const limit = maxImageKB * 1024
	sizeMessage := fmt.Sprintf("The image may not be greater than %d kilobytes.", maxImageKB)
	if header.Size > limit {
		return nil, sizeMessage
	}

	f, err := header.Open()
	if err != nil {
		return nil, "The image failed to upload."
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, "The image failed to upload."
	}
	if len(content) > limit {
		return nil, sizeMessage
	}

	detected := mimetype.Detect(content)
	if !slices.ContainsFunc(allowedImageTypes, detected.Is) {
		return nil, typeMessage
	}

	return &domain.ImageUpload{
		OriginalName: header.Filename,
		Content:      content,
	}, ""
}
