package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"geoaddr/internal/service"
)

const (
	defaultPointsLimit = 500
	maxPointsLimit     = 5000
)

// ChannelMessageHandler handles channel message and map point endpoints.
type ChannelMessageHandler struct {
	channelService service.ChannelMessageService
}

// NewChannelMessageHandler creates a new ChannelMessageHandler.
func NewChannelMessageHandler(channelService service.ChannelMessageService) *ChannelMessageHandler {
	return &ChannelMessageHandler{channelService: channelService}
}

// Ingest handles POST /api/v1/channel-messages
// @Summary Store a message pushed by a channel webhook
// @Tags channel-messages
// @Accept json
// @Produce json
// @Param X-Channel-Webhook-Secret header string false "Webhook secret (or ?secret=)"
// @Param request body service.IngestInput true "Channel message"
// @Success 201 {object} APIResponse{data=domain.ChannelMessage}
// @Failure 400 {object} APIResponse "Validation error"
// @Failure 401 {object} APIResponse "Invalid secret"
// @Router /channel-messages [post]
func (h *ChannelMessageHandler) Ingest(c *gin.Context) {
	var input service.IngestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	msg, err := h.channelService.Ingest(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, msg)
}

// List handles GET /api/v1/channel-messages
// @Summary List stored channel messages
// @Tags channel-messages
// @Produce json
// @Param channel_id query string false "Filter by channel"
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} APIResponse{data=[]domain.ChannelMessage,meta=PagMeta}
// @Router /channel-messages [get]
func (h *ChannelMessageHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c, 20, 100)

	msgs, total, err := h.channelService.List(c.Request.Context(), c.Query("channel_id"), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, msgs, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Reprocess handles POST /api/v1/channel-messages/reprocess
// @Summary Queue stored messages for geocoding again
// @Tags channel-messages
// @Produce json
// @Param channel_id query string false "Only this channel"
// @Success 200 {object} APIResponse
// @Failure 401 {object} APIResponse "Invalid secret"
// @Router /channel-messages/reprocess [post]
func (h *ChannelMessageHandler) Reprocess(c *gin.Context) {
	n, err := h.channelService.Reprocess(c.Request.Context(), c.Query("channel_id"))
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"queued": n})
}

// Points handles GET /api/v1/points
// @Summary Geocoded messages as map points
// @Tags channel-messages
// @Produce json
// @Param limit query int false "Maximum points (max 5000)" default(500)
// @Success 200 {object} APIResponse{data=[]domain.MapPoint}
// @Router /points [get]
func (h *ChannelMessageHandler) Points(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPointsLimit)))
	if limit <= 0 || limit > maxPointsLimit {
		limit = defaultPointsLimit
	}

	points, err := h.channelService.Points(c.Request.Context(), limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, points)
}
