package inbound

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shandysiswandi/goexemplar/internal/exemplar/entity"
	"github.com/shandysiswandi/goexemplar/internal/exemplar/usecase"
	"github.com/shandysiswandi/goexemplar/internal/pkg/pkgerror"
	"github.com/shandysiswandi/goexemplar/internal/pkg/pkgrouter"
)

type HTTPEndpoint struct {
	uc             uc
	maxUploadBytes int64
}

// Upload godoc
//
//	@Summary		Transform a payment and an MTR report
//	@Description	Normalizes both reports, writes the transformed and exemplar spreadsheets and stores the exemplar rows.
//	@Tags			exemplar
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			payment_report	formData	file	true	"Payment report (CSV or XLSX)"
//	@Param			mtr_report		formData	file	true	"MTR report (XLSX or CSV)"
//	@Success		200				{object}	UploadResponse
//	@Failure		400				{object}	ErrorResponse	"Missing part, unsupported file or missing column"
//	@Failure		413				{object}	ErrorResponse	"Report over the size limit"
//	@Failure		422				{object}	ErrorResponse	"Report contents could not be transformed"
//	@Failure		500				{object}	ErrorResponse	"Output or database failure"
//	@Router			/upload/ [post]
func (h *HTTPEndpoint) Upload(ctx context.Context, r *http.Request) (any, error) {
	files, err := h.readReports(r)
	if err != nil {
		return nil, err
	}

	result, err := h.uc.Upload(ctx, usecase.UploadInput{
		Payment: files[entity.PartPaymentReport],
		MTR:     files[entity.PartMTRReport],
	})
	if err != nil {
		return nil, err
	}

	resp := UploadResponse{
		UploadID:        result.UploadID,
		FilesCreated:    result.FileNames(),
		Files:           make([]File, 0, len(result.Files)),
		PaymentRows:     result.PaymentRows,
		MTRRows:         result.MTRRows,
		RecordsInserted: result.RecordsInserted,
	}
	for _, f := range result.Files {
		resp.Files = append(resp.Files, toHTTPFile(f))
	}

	return resp, nil
}

// Records godoc
//
//	@Summary	List stored exemplar rows of an upload
//	@Tags		exemplar
//	@Produce	json
//	@Param		upload_id	path		string	true	"Upload ID"
//	@Param		page		query		int		false	"Page, from 1"
//	@Param		page_size	query		int		false	"Rows per page, at most 500"
//	@Success	200			{object}	RecordsResponse
//	@Failure	400			{object}	ErrorResponse
//	@Failure	404			{object}	ErrorResponse
//	@Router		/uploads/{upload_id}/records [get]
func (h *HTTPEndpoint) Records(ctx context.Context, r *http.Request) (any, error) {
	uploadID := strings.TrimSpace(pkgrouter.GetParam(ctx, "upload_id"))

	query := r.URL.Query()
	page, pageSize, err := parsePagination(query.Get("page"), query.Get("page_size"))
	if err != nil {
		return nil, err
	}

	result, err := h.uc.Records(ctx, uploadID, page, pageSize)
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(result.Records))
	for _, rec := range result.Records {
		records = append(records, toHTTPRecord(rec))
	}

	return RecordsResponse{
		UploadID: result.UploadID,
		Records:  records,
		page:     result.Page,
		pageSize: result.PageSize,
		total:    result.Total,
	}, nil
}

// Reconciliation godoc
//
//	@Summary	Categorize an upload and check payment tolerance
//	@Tags		exemplar
//	@Produce	json
//	@Param		upload_id	path		string	true	"Upload ID"
//	@Success	200			{object}	ReconciliationResponse
//	@Failure	400			{object}	ErrorResponse
//	@Failure	404			{object}	ErrorResponse
//	@Router		/uploads/{upload_id}/reconciliation [get]
func (h *HTTPEndpoint) Reconciliation(ctx context.Context, _ *http.Request) (any, error) {
	uploadID := strings.TrimSpace(pkgrouter.GetParam(ctx, "upload_id"))

	result, err := h.uc.Reconcile(ctx, uploadID)
	if err != nil {
		return nil, err
	}

	return toHTTPReconciliation(result), nil
}

func parsePagination(pageRaw, sizeRaw string) (int, int, error) {
	page := 1
	pageSize := 50

	if pageRaw != "" {
		value, err := strconv.Atoi(pageRaw)
		if err != nil || value < 1 {
			return 0, 0, pkgerror.NewInvalidInput(errors.New("invalid page"))
		}
		page = value
	}

	if sizeRaw != "" {
		value, err := strconv.Atoi(sizeRaw)
		if err != nil || value < 1 {
			return 0, 0, pkgerror.NewInvalidInput(errors.New("invalid page_size"))
		}
		pageSize = min(value, usecase.MaxPageSize)
	}

	return page, pageSize, nil
}

// readReports collects both report parts of a multipart upload into memory.
// Other parts are skipped.
func (h *HTTPEndpoint) readReports(r *http.Request) (map[string]entity.UploadedFile, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || !strings.EqualFold(mediaType, "multipart/form-data") {
		return nil, pkgerror.NewInvalidFormat(errors.New("request must be multipart/form-data"))
	}

	reader, err := r.MultipartReader()
	if err != nil {
		return nil, pkgerror.NewInvalidFormat(err)
	}

	files := make(map[string]entity.UploadedFile, 2)
	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, pkgerror.NewInvalidFormat(fmt.Errorf("read multipart: %w", err))
		}

		name := part.FormName()
		if name != entity.PartPaymentReport && name != entity.PartMTRReport {
			_ = part.Close()
			continue
		}

		data, err := io.ReadAll(io.LimitReader(part, h.maxUploadBytes+1))
		_ = part.Close()
		if err != nil {
			return nil, pkgerror.NewInvalidFormat(fmt.Errorf("read %s: %w", name, err))
		}
		if int64(len(data)) > h.maxUploadBytes {
			return nil, pkgerror.NewTooLarge(fmt.Errorf("%s exceeds %s", name, humanize.IBytes(uint64(h.maxUploadBytes))))
		}

		files[name] = entity.UploadedFile{Part: name, Filename: part.FileName(), Data: data}
	}

	for _, name := range []string{entity.PartPaymentReport, entity.PartMTRReport} {
		if _, ok := files[name]; !ok {
			return nil, pkgerror.NewInvalidInput(fmt.Errorf("%s is required", name))
		}
	}

	return files, nil
}
