package http

import (
	"errors"

	"review-replier/internal/domain"
	"review-replier/internal/ports/input"
	"review-replier/pkg/validator"

	"gorm.io/gorm"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// HTTPHandler struct - Primary/Driving adapter for HTTP
type HTTPHandler struct {
	users     input.UserService
	reviews   input.ReviewService
	db        *gorm.DB
	validator validator.Validator
}

// New func - Creates new HTTP handler
func New(users input.UserService, reviews input.ReviewService, db *gorm.DB) *HTTPHandler {
	return &HTTPHandler{
		users:     users,
		reviews:   reviews,
		db:        db,
		validator: validator.New(),
	}
}

// RegisterRoutes func - Mounts the API under /v1/api and the health check
func (hdl *HTTPHandler) RegisterRoutes(app *fiber.App) {
	app.Get("/health", hdl.HealthCheck)

	api := app.Group("/v1/api")
	{
		api.Get("/is_authorized", hdl.IsAuthorized)
		api.Get("/user_info", hdl.UserInfo)
		api.Post("/generate_token", hdl.GenerateToken)
		api.Post("/ensure_token", hdl.EnsureToken)
		api.Get("/marketplace_accounts", hdl.MarketplaceAccounts)
		api.Get("/review", hdl.GetReview)
		api.Post("/reply", hdl.SendReply)
	}
}

// HealthCheck func
func (hdl *HTTPHandler) HealthCheck(c *fiber.Ctx) error {
	if hdl.db == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ResponseBody{Status: InternalServerError})
	}

	sqlDB, err := hdl.db.DB()
	if err != nil {
		logrus.Errorln(err)
		return c.Status(fiber.StatusInternalServerError).JSON(ResponseBody{Status: InternalServerError})
	}

	err = sqlDB.PingContext(c.UserContext())
	if err != nil {
		logrus.Errorln(err)
		return c.Status(fiber.StatusInternalServerError).JSON(ResponseBody{Status: InternalServerError})
	}
	return c.Status(fiber.StatusOK).JSON(ResponseBody{Status: Success, Data: ""})
}

// IsAuthorized godoc
// @Summary Check registration
// @Description Reports whether the chat user finished registration
// @Tags Users
// @Produce json
// @param user_id query string true "chat user id"
// @Success 200 {object} ResponseBody{data=AuthorizedResponse}
// @Router /v1/api/is_authorized [get]
func (hdl *HTTPHandler) IsAuthorized(c *fiber.Ctx) error {
	var query UserQuery
	if ok, err := hdl.parseQuery(c, &query); !ok {
		return err
	}

	authorized, err := hdl.users.IsAuthorized(c.UserContext(), query.UserID)
	if err != nil {
		return hdl.errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(ResponseBody{Status: Success, Data: AuthorizedResponse{Authorized: authorized}})
}

// UserInfo godoc
// @Summary Get user info
// @Description Returns the registered name and auth token of the chat user
// @Tags Users
// @Produce json
// @param user_id query string true "chat user id"
// @Success 200 {object} ResponseBody{data=UserInfoResponse}
// @Failure 401 {object} ResponseBody
// @Router /v1/api/user_info [get]
func (hdl *HTTPHandler) UserInfo(c *fiber.Ctx) error {
	var query UserQuery
	if ok, err := hdl.parseQuery(c, &query); !ok {
		return err
	}

	info, err := hdl.users.UserInfo(c.UserContext(), query.UserID)
	if err != nil {
		return hdl.errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(ResponseBody{Status: Success, Data: UserInfoResponse{Name: info.Name, AuthToken: info.AuthToken}})
}

// GenerateToken godoc
// @Summary Issue auth token
// @Description Issues a new auth token, replacing the previous one
// @Tags Users
// @Accept application/json
// @Produce json
// @param GenerateToken body TokenRequest true "GenerateToken"
// @Success 200 {object} ResponseBody{data=TokenResponse}
// @Router /v1/api/generate_token [post]
func (hdl *HTTPHandler) GenerateToken(c *fiber.Ctx) error {
	var request TokenRequest
	if ok, err := hdl.parseBody(c, &request); !ok {
		return err
	}

	token, err := hdl.users.GenerateToken(c.UserContext(), request.UserID)
	if err != nil {
		return hdl.errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(ResponseBody{Status: Success, Data: TokenResponse{Token: token}})
}

// EnsureToken godoc
// @Summary Ensure auth token
// @Description Returns the existing auth token, issuing one only when absent
// @Tags Users
// @Accept application/json
// @Produce json
// @param EnsureToken body TokenRequest true "EnsureToken"
// @Success 200 {object} ResponseBody{data=TokenResponse}
// @Router /v1/api/ensure_token [post]
func (hdl *HTTPHandler) EnsureToken(c *fiber.Ctx) error {
	var request TokenRequest
	if ok, err := hdl.parseBody(c, &request); !ok {
		return err
	}

	token, err := hdl.users.EnsureToken(c.UserContext(), request.UserID)
	if err != nil {
		return hdl.errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(ResponseBody{Status: Success, Data: TokenResponse{Token: token}})
}

// MarketplaceAccounts godoc
// @Summary List marketplace accounts
// @Description Lists the marketplace accounts of the chat user
// @Tags Accounts
// @Produce json
// @param user_id query string true "chat user id"
// @Success 200 {object} ResponseBody{data=AccountListResponse}
// @Failure 401 {object} ResponseBody
// @Router /v1/api/marketplace_accounts [get]
func (hdl *HTTPHandler) MarketplaceAccounts(c *fiber.Ctx) error {
	var query UserQuery
	if ok, err := hdl.parseQuery(c, &query); !ok {
		return err
	}

	accounts, err := hdl.users.ListAccounts(c.UserContext(), query.UserID)
	if err != nil {
		return hdl.errorResponse(c, err)
	}

	data := AccountListResponse{Accounts: make([]AccountResponse, 0, len(accounts))}
	for _, acc := range accounts {
		data.Accounts = append(data.Accounts, AccountResponse{
			ID:          acc.ID,
			Marketplace: acc.Marketplace,
			AccountName: acc.AccountName,
		})
	}
	return c.Status(fiber.StatusOK).JSON(ResponseBody{Status: Success, Data: data})
}

// GetReview godoc
// @Summary Get next unanswered review
// @Description Returns one review needing a reply with a suggested answer
// @Tags Reviews
// @Produce json
// @param user_id query string true "chat user id"
// @param account_id query int true "marketplace account id"
// @param page_token query string false "cursor from the previous page"
// @Success 200 {object} ResponseBody{data=ReviewResponse}
// @Failure 401 {object} ResponseBody
// @Failure 404 {object} ResponseBody
// @Failure 502 {object} ResponseBody
// @Router /v1/api/review [get]
func (hdl *HTTPHandler) GetReview(c *fiber.Ctx) error {
	var query ReviewQuery
	if ok, err := hdl.parseQuery(c, &query); !ok {
		return err
	}

	result, err := hdl.reviews.GetReview(c.UserContext(), domain.GetReviewRequest{
		UserID:    query.UserID,
		AccountID: query.AccountID,
		PageToken: query.PageToken,
	})
	if err != nil {
		return hdl.errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(ResponseBody{Status: Success, Data: ReviewResponse{
		ReviewID:      result.ReviewID,
		Review:        result.Review,
		Reply:         result.Reply,
		NextPageToken: result.NextPageToken,
		Photos:        result.Photos,
	}})
}

// SendReply godoc
// @Summary Post a reply
// @Description Posts a seller reply on a review. Repeated calls post again.
// @Tags Reviews
// @Accept application/json
// @Produce json
// @param SendReply body ReplyRequest true "SendReply"
// @Success 200 {object} ResponseBody{data=ReplyResponse}
// @Failure 401 {object} ResponseBody
// @Failure 404 {object} ResponseBody
// @Failure 502 {object} ResponseBody
// @Router /v1/api/reply [post]
func (hdl *HTTPHandler) SendReply(c *fiber.Ctx) error {
	var request ReplyRequest
	if ok, err := hdl.parseBody(c, &request); !ok {
		return err
	}

	err := hdl.reviews.SendReply(c.UserContext(), domain.SendReplyRequest{
		UserID:    request.UserID,
		AccountID: request.AccountID,
		ReviewID:  request.ReviewID,
		Text:      request.Reply,
	})
	if err != nil {
		return hdl.errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(ResponseBody{Status: Success, Data: ReplyResponse{Status: "success"}})
}

func (hdl *HTTPHandler) parseQuery(c *fiber.Ctx, out interface{}) (bool, error) {
	if err := c.QueryParser(out); err != nil {
		logrus.Errorln(err)
		return false, c.Status(fiber.StatusBadRequest).JSON(ResponseBody{Status: BadRequest})
	}
	return hdl.validate(c, out)
}

func (hdl *HTTPHandler) parseBody(c *fiber.Ctx, out interface{}) (bool, error) {
	if err := c.BodyParser(out); err != nil {
		logrus.Errorln(err)
		return false, c.Status(fiber.StatusBadRequest).JSON(ResponseBody{Status: BadRequest})
	}
	return hdl.validate(c, out)
}

func (hdl *HTTPHandler) validate(c *fiber.Ctx, out interface{}) (bool, error) {
	if err := hdl.validator.ValidateStruct(out); err != nil {
		msg := ResponseBody{
			Status: BadRequest,
		}
		msg.Status.Message = validator.Messages(err)
		return false, c.Status(fiber.StatusBadRequest).JSON(msg)
	}
	return true, nil
}

// errorResponse translates domain errors to status codes
func (hdl *HTTPHandler) errorResponse(c *fiber.Ctx, err error) error {
	var status Status
	switch {
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrAuthRequired):
		status = Unauthorized
	case errors.Is(err, domain.ErrAccountNotFound):
		status = NotFound
	case errors.Is(err, domain.ErrMarketplaceNotSupported), errors.Is(err, domain.ErrInvalidRequest):
		status = BadRequest
	case errors.Is(err, domain.ErrRemoteUnavailable):
		status = BadGateway
	default:
		status = InternalServerError
	}

	if status.Code >= fiber.StatusInternalServerError {
		logrus.Errorln(err)
	} else {
		logrus.Warnln(err)
	}

	msg := ResponseBody{Status: status}
	msg.Status.Message = []string{err.Error()}
	return c.Status(status.Code).JSON(msg)
}
