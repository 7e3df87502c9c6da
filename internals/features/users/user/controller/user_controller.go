package controller

import (
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	userDTO "portalpadres_backend/internals/features/users/user/dto"
	"portalpadres_backend/internals/features/users/user/model"
	helper "portalpadres_backend/internals/helpers"
)

var validate = validator.New()

type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

// GetMe handles GET /users/me, the guardian profile behind the JWT.
func (uc *UserController) GetMe(c *fiber.Ctx) error {
	uid, err := helper.GetUserID(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var user model.UserModel
	if err := uc.DB.First(&user, "u_id = ?", uid).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Usuario no encontrado")
	}

	return helper.Success(c, "Perfil obtenido correctamente", user)
}

// UpdateMe handles PUT /users/me as a partial update.
func (uc *UserController) UpdateMe(c *fiber.Ctx) error {
	uid, err := helper.GetUserID(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req userDTO.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Formato de solicitud inválido")
	}
	req.Normalize()
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	updates := req.ToUpdatesMap()
	if len(updates) == 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Nada que actualizar")
	}

	if err := uc.DB.Model(&model.UserModel{}).Where("u_id = ?", uid).Updates(updates).Error; err != nil {
		log.Println("[ERROR] UpdateMe:", err)
		return helper.Error(c, fiber.StatusInternalServerError, "No se pudo actualizar el perfil")
	}

	var user model.UserModel
	if err := uc.DB.First(&user, "u_id = ?", uid).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "No se pudo leer el perfil")
	}
	return helper.Success(c, "Perfil actualizado correctamente", user)
}

// PUT /api/v1/users/update-address
func (uc *UserController) UpdateAddress(c *fiber.Ctx) error {
	uid, err := helper.GetUserID(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req struct {
		Domicilio string `json:"domicilio" validate:"required,max=255"`
	}
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Formato de solicitud inválido")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	domicilio := strings.ToUpper(strings.TrimSpace(req.Domicilio))
	if err := uc.DB.Model(&model.UserModel{}).Where("u_id = ?", uid).
		Update("domicilio", domicilio).Error; err != nil {
		log.Println("[ERROR] UpdateAddress:", err)
		return helper.Error(c, fiber.StatusInternalServerError, "No se pudo actualizar el domicilio")
	}

	return helper.Success(c, "Domicilio actualizado correctamente", fiber.Map{
		"domicilio": domicilio,
	})
}
