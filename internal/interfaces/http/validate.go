package http

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-inventario-api/internal/application/dto"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// parseBody parsea el JSON del request y lo valida con las etiquetas validate
// del DTO. Devuelve la respuesta de error ya escrita, o nil si todo es válido.
func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(out); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validationMessage(err)})
	}
	return nil
}

// validationMessage arma un mensaje legible con los campos que fallaron.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	ok := false
	if v, isV := err.(validator.ValidationErrors); isV {
		verrs = v
		ok = true
	}
	if !ok {
		return "validación fallida"
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, strings.ToLower(fe.Field())+" ("+fe.Tag()+")")
	}
	return "campos inválidos: " + strings.Join(fields, ", ")
}
