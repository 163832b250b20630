package http

import (
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ppe-stock-api/internal/application/dto"
)

var validate = validator.New()

// bindAndValidate parsea el body JSON y aplica las reglas `validate` del DTO.
// Si falla escribe la respuesta 400 y devuelve false; el handler debe retornar de inmediato.
func bindAndValidate(c *fiber.Ctx, req any) (bool, error) {
	if err := c.BodyParser(req); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "cuerpo JSON inválido"})
	}
	if err := validate.Struct(req); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: describeValidation(err)})
	}
	return true, nil
}

// validUUID valida un id de ruta o query. Si no es un UUID escribe la respuesta 400 y devuelve false.
func validUUID(c *fiber.Ctx, field, value string) (bool, error) {
	if err := validate.Var(value, "required,uuid"); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: field + ": debe ser un UUID"})
	}
	return true, nil
}

func describeValidation(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fe.Field()+": "+fe.Tag())
	}
	sort.Strings(parts)
	return "datos inválidos (" + strings.Join(parts, ", ") + ")"
}
