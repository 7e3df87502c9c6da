package controller

import (
	"errors"
	"log"
	"strings"
	"time"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"portalpadres_backend/internals/configs"
	authDTO "portalpadres_backend/internals/features/users/auth/dto"
	authService "portalpadres_backend/internals/features/users/auth/service"
	userModel "portalpadres_backend/internals/features/users/user/model"
	helper "portalpadres_backend/internals/helpers"
)

var validate = validator.New()

type AuthController struct {
	DB *gorm.DB
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db}
}

// POST /api/v1/auth/register
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var req authDTO.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Formato de solicitud inválido")
	}
	req.Normalize()
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	var existing userModel.UserModel
	if err := ac.DB.Where("u_correo = ?", req.Correo).First(&existing).Error; err == nil {
		return helper.Error(c, fiber.StatusBadRequest, "El correo ya está registrado")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Println("[ERROR] Register lookup:", err)
		return helper.Error(c, fiber.StatusInternalServerError, "Error interno")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "No se pudo procesar la contraseña")
	}

	user := req.ToModel()
	user.Password = string(hashed)
	user.Estatus = userModel.UserStatusPendiente
	token := uuid.NewString()
	user.TokenActivacion = &token

	if err := ac.DB.Create(user).Error; err != nil {
		log.Println("[ERROR] Register create:", err)
		return helper.Error(c, fiber.StatusInternalServerError, "No se pudo crear la cuenta")
	}

	// TODO: send activation email once the SMTP relay for the portal is provisioned
	log.Printf("[SUCCESS] Registered guardian u_id=%d\n", user.UID)
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Cuenta creada. Revisa tu correo para activarla.", user)
}

// POST /api/v1/auth/login
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req authDTO.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Formato de solicitud inválido")
	}
	req.Normalize()
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	// System service account used to talk to the external SIGA API. Created on
	// first login, always VALIDADO.
	if req.Correo == strings.ToLower(configs.SigaAPIEmail) && configs.SigaAPIPassword != "" && req.Password == configs.SigaAPIPassword {
		return ac.loginSystemUser(c, req)
	}

	var user userModel.UserModel
	if err := ac.DB.Where("u_correo = ?", req.Correo).First(&user).Error; err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Correo o contraseña incorrectos")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Correo o contraseña incorrectos")
	}
	if user.Estatus != userModel.UserStatusValidado {
		return helper.Error(c, fiber.StatusForbidden, "Cuenta no activada. Revisa tu correo.")
	}

	access, err := authService.IssueAccessToken(user.UID, user.Correo)
	if err != nil {
		log.Println("[ERROR] Login token:", err)
		return helper.Error(c, fiber.StatusInternalServerError, "No se pudo generar el token")
	}

	return helper.Success(c, "Inicio de sesión exitoso", authDTO.TokenResponse{
		AccessToken: access,
		TokenType:   "bearer",
	})
}

func (ac *AuthController) loginSystemUser(c *fiber.Ctx, req authDTO.LoginRequest) error {
	var system userModel.UserModel
	err := ac.DB.Where("u_correo = ?", req.Correo).First(&system).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		hashed, hashErr := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if hashErr != nil {
			return helper.Error(c, fiber.StatusInternalServerError, "Error interno")
		}
		system = userModel.UserModel{
			Correo:          req.Correo,
			Password:        string(hashed),
			Nombre:          "SISTEMA",
			ApellidoPaterno: "USEBEQ",
			Estatus:         userModel.UserStatusValidado,
		}
		if err := ac.DB.Create(&system).Error; err != nil {
			log.Println("[ERROR] system user create:", err)
			return helper.Error(c, fiber.StatusInternalServerError, "Error interno")
		}
	} else if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Error interno")
	}

	access, err := authService.IssueAccessToken(system.UID, system.Correo)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "No se pudo generar el token")
	}
	return helper.Success(c, "Inicio de sesión exitoso", authDTO.TokenResponse{
		AccessToken: access,
		TokenType:   "bearer",
	})
}

// LoginGoogle signs in with a Google ID token; the account
// must already exist (guardians register with their data first).
func (ac *AuthController) LoginGoogle(c *fiber.Ctx) error {
	var req authDTO.GoogleLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Formato de solicitud inválido")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	if configs.GoogleClientID == "" {
		return helper.Error(c, fiber.StatusServiceUnavailable, "Inicio de sesión con Google no está habilitado")
	}

	v := googleAuthIDTokenVerifier.Verifier{}
	if err := v.VerifyIDToken(req.IDToken, []string{configs.GoogleClientID}); err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Token de Google inválido")
	}
	claimSet, err := googleAuthIDTokenVerifier.Decode(req.IDToken)
	if err != nil || claimSet.Email == "" {
		return helper.Error(c, fiber.StatusUnauthorized, "Token de Google inválido")
	}

	var user userModel.UserModel
	if err := ac.DB.Where("u_correo = ?", strings.ToLower(claimSet.Email)).First(&user).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "No existe una cuenta con este correo. Regístrate primero.")
	}
	if user.Estatus != userModel.UserStatusValidado {
		return helper.Error(c, fiber.StatusForbidden, "Cuenta no activada. Revisa tu correo.")
	}

	access, err := authService.IssueAccessToken(user.UID, user.Correo)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "No se pudo generar el token")
	}
	return helper.Success(c, "Inicio de sesión exitoso", authDTO.TokenResponse{
		AccessToken: access,
		TokenType:   "bearer",
	})
}

// POST /api/v1/auth/activate/:token
func (ac *AuthController) Activate(c *fiber.Ctx) error {
	token := strings.TrimSpace(c.Params("token"))
	if token == "" {
		return helper.Error(c, fiber.StatusBadRequest, "Token de activación requerido")
	}

	var user userModel.UserModel
	if err := ac.DB.Where("token_activacion = ?", token).First(&user).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Token de activación inválido")
	}
	if user.Estatus == userModel.UserStatusValidado {
		return helper.Error(c, fiber.StatusBadRequest, "La cuenta ya está activada")
	}

	now := time.Now().UTC()
	updates := map[string]interface{}{
		"estatus":          userModel.UserStatusValidado,
		"token_activacion": nil,
		"fecha_validacion": now,
	}
	if err := ac.DB.Model(&user).Updates(updates).Error; err != nil {
		log.Println("[ERROR] Activate:", err)
		return helper.Error(c, fiber.StatusInternalServerError, "No se pudo activar la cuenta")
	}

	return helper.Success(c, "Cuenta activada correctamente", nil)
}
