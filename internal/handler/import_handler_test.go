package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/opusnote/opusnote-api/internal/dto"
	"github.com/opusnote/opusnote-api/internal/repository"
	"github.com/opusnote/opusnote-api/internal/service"
	"github.com/opusnote/opusnote-api/internal/utils"
)

func newImportApp(t *testing.T, samplePath string) (*fiber.App, repository.StudentRepository) {
	t.Helper()

	repo := repository.NewStudentRepository(t.TempDir())
	svc := service.NewImportService(repo, zerolog.Nop())
	h := NewImportHandler(svc, samplePath, zerolog.Nop())

	app := fiber.New()
	app.Get("/download-sample", h.DownloadSample)
	h.Register(app.Group("/api"))
	return app, repo
}

func multipartUpload(t *testing.T, filename string, content io.Reader) (io.Reader, string) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = io.Copy(part, content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return &body, writer.FormDataContentType()
}

func workbookUpload(t *testing.T, rows [][]interface{}) (io.Reader, string) {
	t.Helper()

	f := excelize.NewFile()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return multipartUpload(t, "students.xlsx", &buf)
}

func TestImportHandlerImportsRows(t *testing.T) {
	app, repo := newImportApp(t, "")

	body, contentType := workbookUpload(t, [][]interface{}{
		{"First Name", "Last Name", "Book", "Current book page", "Current Pieces", "Skill Level", "Age", "Instrument", "Goals"},
		{"Ana", "Silva", "Faber 2A", "14", "Ode to Joy", "beginner", "9", "Piano", "Learn to read bass clef"},
		{"Tomas", "", "", "", "", "advanced", "", "Violin", ""},
	})

	req := httptest.NewRequest("POST", "/api/import-xlsx", body)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload dto.ImportResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.True(t, payload.Success)
	assert.Equal(t, 2, payload.Count)

	students, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, students, 2)
}

func TestImportHandlerNoFile(t *testing.T) {
	app, _ := newImportApp(t, "")

	resp, err := app.Test(httptest.NewRequest("POST", "/api/import-xlsx", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var payload utils.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, "No file provided", payload.Error)
}

func TestImportHandlerRejectsNonSpreadsheet(t *testing.T) {
	app, _ := newImportApp(t, "")

	body, contentType := multipartUpload(t, "students.csv", strings.NewReader("First Name,Last Name\nAna,Silva\n"))
	req := httptest.NewRequest("POST", "/api/import-xlsx", body)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var payload utils.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, "invalid spreadsheet file", payload.Error)
}

func TestImportHandlerDownloadSample(t *testing.T) {
	samplePath := filepath.Join(t.TempDir(), "sample_import.csv")
	require.NoError(t, os.WriteFile(samplePath, []byte("First Name,Last Name\n"), 0o644))

	app, _ := newImportApp(t, samplePath)

	resp, err := app.Test(httptest.NewRequest("GET", "/download-sample", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "sample_import.csv")

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "First Name,Last Name\n", string(raw))
}

func TestImportHandlerDownloadSampleMissing(t *testing.T) {
	app, _ := newImportApp(t, filepath.Join(t.TempDir(), "missing.csv"))

	resp, err := app.Test(httptest.NewRequest("GET", "/download-sample", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var payload utils.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, "Sample file not found", payload.Error)
}
