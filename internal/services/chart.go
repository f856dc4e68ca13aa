package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"strings"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"

	"github.com/evergrid/lifecycle-backend/internal/pkg/logger"
)

const (
	chartWidth  = 800
	chartHeight = 400
	chartScale  = 2 // render at 2x, downsample for smooth edges
)

var barColors = []color.NRGBA{
	{R: 0x3B, G: 0x82, B: 0xF6, A: 0xFF},
	{R: 0x10, G: 0xB9, B: 0x81, A: 0xFF},
	{R: 0xF5, G: 0x9E, B: 0x0B, A: 0xFF},
	{R: 0xEF, G: 0x44, B: 0x44, A: 0xFF},
	{R: 0x8B, G: 0x5C, B: 0xF6, A: 0xFF},
}

// ChartService renders the stage-distribution chart as a PNG and optionally
// pushes a snapshot of it to the bucket.
type ChartService interface {
	DistributionPNG(ctx context.Context) ([]byte, error)
	SnapshotDistribution(ctx context.Context) (string, error)
}

type chartService struct {
	log              *logger.Logger
	analyticsService AnalyticsService
	bucketService    BucketService
	fontFace         font.Face
}

// NewChartService loads an optional TTF via CHART_FONT; without it the
// renderer falls back to gg's built-in face.
func NewChartService(baseLog *logger.Logger, analyticsService AnalyticsService, bucketService BucketService) (ChartService, error) {
	serviceLog := baseLog.With("service", "ChartService")
	var face font.Face
	fontPath := os.Getenv("CHART_FONT")
	if strings.TrimSpace(fontPath) != "" {
		serviceLog.Info("Loading chart font", "font", fontPath)
		loaded, err := loadChartFont(fontPath, 13*chartScale)
		if err != nil {
			return nil, fmt.Errorf("could not load chart font: %w", err)
		}
		face = loaded
	}
	return &chartService{
		log:              serviceLog,
		analyticsService: analyticsService,
		bucketService:    bucketService,
		fontFace:         face,
	}, nil
}

func (s *chartService) DistributionPNG(ctx context.Context) ([]byte, error) {
	counts, err := s.analyticsService.Distribution(ctx)
	if err != nil {
		return nil, err
	}

	w := chartWidth * chartScale
	h := chartHeight * chartScale
	dc := gg.NewContext(w, h)
	dc.SetColor(color.White)
	dc.DrawRectangle(0, 0, float64(w), float64(h))
	dc.Fill()
	if s.fontFace != nil {
		dc.SetFontFace(s.fontFace)
	}

	var maxCount int64 = 1
	for _, c := range counts {
		if c.Count > maxCount {
			maxCount = c.Count
		}
	}

	margin := 60.0 * chartScale
	plotW := float64(w) - 2*margin
	plotH := float64(h) - 2*margin
	n := len(counts)
	if n == 0 {
		dc.SetColor(color.NRGBA{R: 0x6B, G: 0x72, B: 0x80, A: 0xFF})
		dc.DrawStringAnchored("no products yet", float64(w)/2, float64(h)/2, 0.5, 0.5)
	} else {
		slot := plotW / float64(n)
		barW := slot * 0.6
		for i, c := range counts {
			barH := plotH * float64(c.Count) / float64(maxCount)
			x := margin + float64(i)*slot + (slot-barW)/2
			y := margin + plotH - barH
			dc.SetColor(barColors[i%len(barColors)])
			dc.DrawRectangle(x, y, barW, barH)
			dc.Fill()
			dc.SetColor(color.Black)
			dc.DrawStringAnchored(c.Stage, x+barW/2, margin+plotH+14*chartScale, 0.5, 0.5)
			dc.DrawStringAnchored(fmt.Sprintf("%d", c.Count), x+barW/2, y-10*chartScale, 0.5, 0.5)
		}
	}
	dc.SetColor(color.Black)
	dc.SetLineWidth(1.5 * chartScale)
	dc.DrawLine(margin, margin+plotH, margin+plotW, margin+plotH)
	dc.Stroke()

	scaled := image.NewNRGBA(image.Rect(0, 0, chartWidth, chartHeight))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), dc.Image(), dc.Image().Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, fmt.Errorf("failed to encode chart PNG: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *chartService) SnapshotDistribution(ctx context.Context) (string, error) {
	if s.bucketService == nil {
		return "", fmt.Errorf("no bucket configured for chart snapshots")
	}
	data, err := s.DistributionPNG(ctx)
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("charts/distribution/%s.png", time.Now().UTC().Format("20060102T150405"))
	if err := s.bucketService.UploadFile(ctx, key, bytes.NewReader(data)); err != nil {
		s.log.Error("SnapshotDistribution: upload failed", "error", err, "key", key)
		return "", err
	}
	url := s.bucketService.GetPublicURL(key)
	s.log.Info("SnapshotDistribution: snapshot stored", "key", key)
	return url, nil
}

func loadChartFont(fontPath string, size float64) (font.Face, error) {
	fontBytes, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read font file: %w", err)
	}
	parsedFont, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}
	return truetype.NewFace(parsedFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	}), nil
}
