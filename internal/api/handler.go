package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/fxtrades/internal/domain/dto"
	"github.com/guttosm/fxtrades/internal/ingestion"
	"github.com/guttosm/fxtrades/internal/middleware"
	"github.com/guttosm/fxtrades/internal/service"
)

// maxBodyBytes caps the size of an upload.
const maxBodyBytes = 8 << 20

// Handler exposes the trade pipeline over HTTP.
type Handler struct {
	svc service.TradeService
}

// NewHandler constructs a Handler around the trade service.
func NewHandler(svc service.TradeService) *Handler {
	return &Handler{svc: svc}
}

// IngestTrades handles POST /api/v1/trades.
//
// The request body is plain text, one "CCYCCY,AMOUNT,PRICE" trade per line.
// Invalid lines are skipped and counted; they never fail the request.
//
// IngestTrades godoc
// @Summary      Ingest trade lines
// @Description  Validates, maps and stores each line of the body; malformed lines are skipped
// @Tags         trades
// @Accept       plain
// @Produce      json
// @Param        body  body      string              true  "One trade per line, e.g. USDEUR,100,45.98"
// @Success      200   {object}  dto.IngestResponse  "Success"
// @Failure      400   {object}  dto.ErrorResponse   "Bad Request"
// @Failure      413   {object}  dto.ErrorResponse   "Body too large"
// @Failure      500   {object}  dto.ErrorResponse   "Internal Error"
// @Router       /api/v1/trades [post]
func (h *Handler) IngestTrades(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

	lines, err := ingestion.NewReaderProvider(c.Request.Body).GetTradeData()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			middleware.AbortWithError(c, http.StatusRequestEntityTooLarge, "request body too large", err)
			return
		}
		middleware.AbortWithError(c, http.StatusBadRequest, "failed to read request body", err)
		return
	}

	summary, err := h.svc.Ingest(c.Request.Context(), lines)
	if err != nil {
		middleware.AbortWithError(c, http.StatusInternalServerError, "failed to persist trades", err)
		return
	}

	c.JSON(http.StatusOK, dto.IngestResponse{
		Lines:     summary.Lines,
		Persisted: summary.Persisted,
		Skipped:   summary.Skipped,
	})
}
