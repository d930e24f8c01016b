package web

import (
	"github.com/gofiber/fiber/v3"
	"github.com/moogar0880/problems"

	"github.com/tradeflow-io/tradeflow/pkg/catalog"
)

func badRequest(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(400).
		WithInstance(c.Path()).
		WithType("validation_error").
		WithDetail(detail)

	return c.Status(fiber.StatusBadRequest).JSON(problem)
}

func notFound(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(404).
		WithInstance(c.Path()).
		WithType("not_found").
		WithDetail(detail)

	return c.Status(fiber.StatusNotFound).JSON(problem)
}

func internalError(c fiber.Ctx, err error) error {
	problem := problems.NewStatusProblem(500).
		WithInstance(c.Path()).
		WithType("internal_error").
		WithError(err)

	return c.Status(fiber.StatusInternalServerError).JSON(problem)
}

// handleCatalogError maps catalog read failures onto problem responses.
// Configuration defects surface as 500s so operators notice; missing
// entities stay 404s.
func handleCatalogError(c fiber.Ctx, err error) error {
	switch {
	case catalog.IsTemplateNotFound(err):
		problem := problems.NewStatusProblem(404).
			WithInstance(c.Path()).
			WithType("template_not_found").
			WithDetail("workflow template not found")

		return c.Status(fiber.StatusNotFound).JSON(problem)

	case catalog.IsStageNotFound(err):
		problem := problems.NewStatusProblem(404).
			WithInstance(c.Path()).
			WithType("stage_not_found").
			WithDetail("stage not found")

		return c.Status(fiber.StatusNotFound).JSON(problem)

	case catalog.IsDuplicateStageOrder(err):
		problem := problems.NewStatusProblem(500).
			WithInstance(c.Path()).
			WithType("configuration_error").
			WithDetail("template stage ordering is ambiguous")

		return c.Status(fiber.StatusInternalServerError).JSON(problem)

	default:
		return internalError(c, err)
	}
}
