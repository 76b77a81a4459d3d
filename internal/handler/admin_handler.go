package handler

import (
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"go-dairy-ledger/internal/middleware"
	"go-dairy-ledger/internal/service"
	"go-dairy-ledger/pkg/apperror"
)

type AdminHandler struct {
	dairyService service.DairyService
}

func NewAdminHandler(dairyService service.DairyService) *AdminHandler {
	return &AdminHandler{dairyService: dairyService}
}

// logoUpload opens the "logo" file part, if any. The caller closes the file.
func logoUpload(c *fiber.Ctx) (*service.LogoUpload, multipart.File, error) {
	fh, err := c.FormFile("logo")
	if err != nil || fh == nil || fh.Size == 0 {
		return nil, nil, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, nil, apperror.NewValidation("Could not read uploaded logo").WithCause(err)
	}
	return &service.LogoUpload{Name: fh.Filename, Reader: f}, f, nil
}

// GET /admin/dairies
func (h *AdminHandler) GetDairies(c *fiber.Ctx) error {
	dairies, err := h.dairyService.ListDairies(c.UserContext(), middleware.Identity(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dairies})
}

// POST /admin/dairies (multipart: name, username, password, logo)
func (h *AdminHandler) CreateDairy(c *fiber.Ctx) error {
	logo, file, err := logoUpload(c)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	dairy, err := h.dairyService.CreateDairy(c.UserContext(), middleware.Identity(c), service.DairyInput{
		Name:     c.FormValue("name"),
		Username: c.FormValue("username"),
		Password: c.FormValue("password"),
	}, logo)
	if err != nil {
		return err
	}
	return c.Status(201).JSON(fiber.Map{"message": "Dairy created", "data": dairy})
}

// POST /admin/dairies/:id/logo
func (h *AdminHandler) UpdateLogo(c *fiber.Ctx) error {
	id, err := params{}.id(c)
	if err != nil {
		return err
	}
	logo, file, err := logoUpload(c)
	if err != nil {
		return err
	}
	if file == nil {
		return apperror.NewValidation("Logo file is required")
	}
	defer file.Close()

	dairy, err := h.dairyService.UpdateLogo(c.UserContext(), middleware.Identity(c), id, *logo)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Logo updated", "data": dairy})
}
