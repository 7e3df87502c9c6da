package controller

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	studentDTO "portalpadres_backend/internals/features/students/dto"
	"portalpadres_backend/internals/features/students/model"
	"portalpadres_backend/internals/features/students/service"
	helper "portalpadres_backend/internals/helpers"
)

type StudentController struct {
	DB       *gorm.DB
	Links    *service.LinkService
	validate *validator.Validate
}

func NewStudentController(db *gorm.DB, siga service.StudentFinder) *StudentController {
	return &StudentController{
		DB:       db,
		Links:    service.NewLinkService(db, siga),
		validate: validator.New(),
	}
}

// GetMyStudents handles GET /students/my-students.
func (sc *StudentController) GetMyStudents(c *fiber.Ctx) error {
	uid, err := helper.GetUserID(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Sesión inválida")
	}
	correo, _ := helper.GetUserEmail(c)

	var links []model.StudentParent
	err = sc.DB.Where("u_id = ? OR padre = ? OR madre = ? OR tutor = ?",
		uid, correo, correo, correo).Find(&links).Error
	if err != nil {
		log.Printf("[ERROR] listar alumnos de usuario %d: %v", uid, err)
		return helper.Error(c, fiber.StatusInternalServerError, "No fue posible consultar los alumnos")
	}

	out := make([]studentDTO.StudentWithEnrollment, 0, len(links))
	seen := make(map[int]bool, len(links))
	for _, link := range links {
		if seen[link.AlID] {
			continue
		}
		seen[link.AlID] = true

		var student model.Student
		if err := sc.DB.Where("al_id = ?", link.AlID).First(&student).Error; err != nil {
			continue
		}

		var enrollment model.Enrollment
		err := sc.DB.Where("al_id = ?", student.AlID).
			Order("ciclo_escolar DESC").
			First(&enrollment).Error
		if err != nil {
			out = append(out, studentDTO.FromStudent(&student, nil))
			continue
		}
		out = append(out, studentDTO.FromStudent(&student, &enrollment))
	}

	return helper.Success(c, "Alumnos vinculados", out)
}

// LinkStudent handles POST /students/link-student. Local CURPs only; when the
// student is unknown the caller is pointed at the CCT variant.
func (sc *StudentController) LinkStudent(c *fiber.Ctx) error {
	uid, err := helper.GetUserID(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Sesión inválida")
	}

	var req studentDTO.LinkStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Formato de solicitud inválido")
	}
	req.Normalize()
	if err := sc.validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	var student model.Student
	err = sc.DB.Where("al_curp = ?", req.AlCURP).First(&student).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return helper.Error(c, fiber.StatusBadRequest,
			"Estudiante no encontrado. Usa el registro con CCT para buscarlo en SIGA")
	}
	if err != nil {
		log.Printf("[ERROR] buscar alumno %s: %v", req.AlCURP, err)
		return helper.Error(c, fiber.StatusInternalServerError, "No fue posible vincular al alumno")
	}

	linked, err := sc.Links.AlreadyLinked(c.Context(), uid, student.AlID)
	if err != nil {
		log.Printf("[ERROR] verificar vínculo alumno %d: %v", student.AlID, err)
		return helper.Error(c, fiber.StatusInternalServerError, "No fue posible vincular al alumno")
	}
	if linked {
		return helper.Error(c, fiber.StatusBadRequest, "Este estudiante ya está vinculado a tu cuenta")
	}

	if err := sc.Links.LinkToUser(c.Context(), uid, student.AlID, req.Relacion); err != nil {
		log.Printf("[ERROR] vincular alumno %d: %v", student.AlID, err)
		return helper.Error(c, fiber.StatusInternalServerError, "No fue posible vincular al alumno")
	}

	return helper.SuccessWithCode(c, fiber.StatusCreated, "Alumno vinculado correctamente", fiber.Map{
		"al_id":     student.AlID,
		"al_curp":   student.AlCURP,
		"al_nombre": student.AlNombre,
		"al_appat":  student.AlAppat,
		"al_apmat":  student.AlApmat,
	})
}

// LinkStudentWithCCT handles POST /students/link-student-with-cct: resolve via
// SIGA (local fallback when SIGA is down), mirror into SCE004, then link.
func (sc *StudentController) LinkStudentWithCCT(c *fiber.Ctx) error {
	uid, err := helper.GetUserID(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Sesión inválida")
	}

	var req studentDTO.LinkStudentWithCCTRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Formato de solicitud inválido")
	}
	req.Normalize()
	if err := sc.validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	lookup, err := sc.Links.LookupStudent(c.Context(), req.CURP, req.CCT)
	if err != nil {
		log.Printf("[ERROR] resolver alumno %s: %v", req.CURP, err)
		return helper.Error(c, fiber.StatusInternalServerError, "No fue posible vincular al alumno")
	}

	switch lookup.Outcome {
	case service.LookupNotFound:
		return helper.Error(c, fiber.StatusNotFound, "Estudiante no encontrado en SIGA")
	case service.LookupUpstreamDown:
		log.Printf("[ERROR] SIGA no disponible y alumno %s sin copia local: %v", req.CURP, lookup.UpstreamErr)
		return helper.Error(c, fiber.StatusServiceUnavailable,
			"El servicio de SIGA no está disponible y el estudiante no se encuentra en la base local")
	}

	alID, err := sc.Links.EnsureLocalStudent(c.Context(), lookup.Estudiante)
	if err != nil {
		log.Printf("[ERROR] registrar alumno %s: %v", req.CURP, err)
		return helper.Error(c, fiber.StatusInternalServerError, "No fue posible vincular al alumno")
	}

	linked, err := sc.Links.AlreadyLinked(c.Context(), uid, alID)
	if err != nil {
		log.Printf("[ERROR] verificar vínculo alumno %d: %v", alID, err)
		return helper.Error(c, fiber.StatusInternalServerError, "No fue posible vincular al alumno")
	}
	if linked {
		return helper.Error(c, fiber.StatusBadRequest, "Este estudiante ya está vinculado a tu cuenta")
	}

	if err := sc.Links.LinkToUser(c.Context(), uid, alID, req.Relacion); err != nil {
		log.Printf("[ERROR] vincular alumno %d: %v", alID, err)
		return helper.Error(c, fiber.StatusInternalServerError, "No fue posible vincular al alumno")
	}

	est := lookup.Estudiante
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Alumno vinculado correctamente", fiber.Map{
		"al_id":     est.IdAlumno,
		"al_curp":   est.CURP,
		"al_nombre": est.Nombre,
		"al_appat":  est.ApellidoPaterno,
		"al_apmat":  est.ApellidoMaterno,
		"cct":       est.CCT,
		"grado":     est.Grado,
		"grupo":     est.Grupo,
		"estatus":   est.Estatus,
	})
}

// UnlinkStudent handles DELETE /students/unlink-student/:id.
func (sc *StudentController) UnlinkStudent(c *fiber.Ctx) error {
	uid, err := helper.GetUserID(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Sesión inválida")
	}

	alID, err := c.ParamsInt("id")
	if err != nil || alID <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Identificador de alumno inválido")
	}

	err = sc.Links.Unlink(c.Context(), uid, alID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return helper.Error(c, fiber.StatusNotFound, "No existe el vínculo con ese alumno")
	}
	if err != nil {
		log.Printf("[ERROR] desvincular alumno %d: %v", alID, err)
		return helper.Error(c, fiber.StatusInternalServerError, "No fue posible desvincular al alumno")
	}

	return helper.Success(c, "Alumno desvinculado correctamente", nil)
}

// AddStudent handles POST /students/add-student: the full self-service flow
// with apellido/CCT/grupo cross-checks and sibling detection.
func (sc *StudentController) AddStudent(c *fiber.Ctx) error {
	if _, err := helper.GetUserID(c); err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Sesión inválida")
	}
	correo, err := helper.GetUserEmail(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Sesión inválida")
	}

	var req studentDTO.AddStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Formato de solicitud inválido")
	}
	req.Normalize()
	if err := sc.validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	result, err := sc.Links.AddStudent(c.Context(), correo,
		req.CURP, req.Apellido, req.CCT, req.Grupo, req.Parentesco)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAlreadyLinked):
			return helper.Error(c, fiber.StatusBadRequest,
				"Este estudiante ya está vinculado a tu cuenta "+err.Error())
		case errors.Is(err, service.ErrStudentNotEnrolled):
			return helper.Error(c, fiber.StatusNotFound, "No se encuentra al estudiante. Intente nuevamente.")
		}
		log.Printf("[ERROR] agregar alumno %s: %v", req.CURP, err)
		return helper.Error(c, fiber.StatusInternalServerError, "No fue posible agregar al estudiante")
	}

	data := fiber.Map{
		"student": fiber.Map{
			"al_id":     result.Student.AlID,
			"al_curp":   result.Student.AlCURP,
			"al_nombre": result.Student.AlNombre,
			"al_appat":  result.Student.AlAppat,
			"al_apmat":  result.Student.AlApmat,
			"grado":     result.Student.EgGrado,
			"grupo":     result.Student.EgGrupo,
			"cct":       result.Student.ClaveCCT,
		},
	}
	if len(result.Siblings) > 0 {
		data["siblings"] = result.Siblings
	}
	return helper.Success(c, "Estudiante agregado correctamente.", data)
}

// GetStudentTeachers handles GET /students/:id/teachers.
func (sc *StudentController) GetStudentTeachers(c *fiber.Ctx) error {
	uid, err := helper.GetUserID(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Sesión inválida")
	}
	correo, _ := helper.GetUserEmail(c)

	alID, err := c.ParamsInt("id")
	if err != nil || alID <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Identificador de alumno inválido")
	}

	owns, err := sc.Links.OwnsStudent(c.Context(), uid, correo, alID)
	if err != nil {
		log.Printf("[ERROR] verificar acceso a alumno %d: %v", alID, err)
		return helper.Error(c, fiber.StatusInternalServerError, "No fue posible consultar a los maestros")
	}
	if !owns {
		return helper.Error(c, fiber.StatusForbidden, "No tienes acceso a este estudiante")
	}

	group, err := sc.Links.StudentGroupInfo(c.Context(), alID)
	if err != nil {
		log.Printf("[ERROR] consultar grupo de alumno %d: %v", alID, err)
		return helper.Error(c, fiber.StatusInternalServerError, "No fue posible consultar a los maestros")
	}
	if group == nil {
		return helper.Success(c, "No se encontró información del grupo del estudiante", fiber.Map{
			"teachers": []service.Teacher{},
			"total":    0,
		})
	}

	teachers, err := sc.Links.GroupTeachers(c.Context(), group.EgID)
	if err != nil {
		log.Printf("[ERROR] consultar maestros del grupo %d: %v", group.EgID, err)
		return helper.Error(c, fiber.StatusInternalServerError, "No fue posible consultar a los maestros")
	}

	return helper.Success(c, "Maestros del grupo", fiber.Map{
		"student_id": alID,
		"group":      group,
		"teachers":   teachers,
		"total":      len(teachers),
	})
}
