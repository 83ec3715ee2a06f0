package controller

import (
	"github.com/Ravishyamsingh/Quiz-System/internal/model"
	"github.com/Ravishyamsingh/Quiz-System/internal/service"
	"github.com/Ravishyamsingh/Quiz-System/internal/util"
	"github.com/gin-gonic/gin"
)

type QuizController struct {
	Service *service.QuizService
}

func NewQuizController(svc *service.QuizService) *QuizController {
	return &QuizController{Service: svc}
}

type GenerateRequest struct {
	LessonContent string `json:"lessonContent" binding:"required"`
	Difficulty    string `json:"difficulty"`
	QuestionCount int    `json:"questionCount"`
}

// @Summary Generate draft questions from lesson content
// @Tags quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body GenerateRequest true "Lesson content and options"
// @Success 200 {object} util.Response
// @Router /api/quizzes/generate [post]
func (c *QuizController) Generate(ctx *gin.Context) {
	var req GenerateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	drafts, err := c.Service.Generate(ctx.Request.Context(), req.LessonContent, req.Difficulty, req.QuestionCount)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, drafts)
}

type SaveQuizRequest struct {
	Title       string           `json:"title" binding:"required"`
	Description string           `json:"description"`
	Questions   []model.Question `json:"questions" binding:"required"`
}

// @Summary Save a quiz with its questions
// @Tags quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SaveQuizRequest true "Quiz metadata and draft questions"
// @Success 201 {object} util.Response
// @Router /api/quizzes [post]
func (c *QuizController) Save(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SaveQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quizID, err := c.Service.Save(user.UserID, service.QuizMetadata{
		Title:       req.Title,
		Description: req.Description,
	}, req.Questions)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{"quizId": quizID})
}

// @Summary List all quizzes
// @Tags quizzes
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/quizzes [get]
func (c *QuizController) List(ctx *gin.Context) {
	quizzes, err := c.Service.ListAll()
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, quizzes)
}

// @Summary Fetch a quiz with its questions
// @Tags quizzes
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 200 {object} util.Response
// @Router /api/quizzes/{id} [get]
func (c *QuizController) Fetch(ctx *gin.Context) {
	quiz, err := c.Service.Fetch(ctx.Param("id"))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	if quiz == nil {
		util.NotFound(ctx)
		return
	}

	util.Success(ctx, quiz)
}

type SubmitRequest struct {
	Answers   map[string]string `json:"answers" binding:"required"`
	TimeTaken int               `json:"timeTaken"`
}

// @Summary Submit answers for a quiz
// @Tags quizzes
// @Accept json
// @Produce json
// @Param id path string true "Quiz ID"
// @Param body body SubmitRequest true "Answer map and elapsed seconds"
// @Success 200 {object} util.Response
// @Router /api/quizzes/{id}/submit [post]
func (c *QuizController) Submit(ctx *gin.Context) {
	var req SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.Service.Submit(ctx.Param("id"), util.CallerIdentity(ctx), req.Answers, req.TimeTaken)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// @Summary List the caller's quiz attempts
// @Tags quizzes
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/attempts [get]
func (c *QuizController) Attempts(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	attempts, err := c.Service.AttemptsFor(user.UserID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, attempts)
}

type UpdateStatusRequest struct {
	Status model.QuizStatus `json:"status" binding:"required"`
}

// @Summary Update a quiz's lifecycle status
// @Tags quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Quiz ID"
// @Param body body UpdateStatusRequest true "Target status"
// @Success 200 {object} util.Response
// @Router /api/quizzes/{id}/status [patch]
func (c *QuizController) UpdateStatus(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req UpdateStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.Service.UpdateStatus(ctx.Param("id"), user.UserID, req.Status)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, quiz)
}

// @Summary Delete a quiz and its questions
// @Tags quizzes
// @Produce json
// @Security BearerAuth
// @Param id path string true "Quiz ID"
// @Success 200 {object} util.Response
// @Router /api/quizzes/{id} [delete]
func (c *QuizController) Delete(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.Service.Delete(ctx.Param("id"), user.UserID); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"deleted": true})
}
