package reader

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/ironsheep/dicekey-reader/internal/config"
	"github.com/ironsheep/dicekey-reader/internal/dicekey"
	"github.com/ironsheep/dicekey-reader/internal/geometry"
	"github.com/ironsheep/dicekey-reader/internal/grid"
	"github.com/ironsheep/dicekey-reader/internal/imaging"
	"github.com/ironsheep/dicekey-reader/internal/ocr"
	"github.com/ironsheep/dicekey-reader/internal/undoverline"
)

// CellReport describes what was read in one grid cell.
type CellReport struct {
	Index   int             `json:"index"`
	Center  geometry.Point  `json:"center"`
	Read    bool            `json:"read"`
	Face    dicekey.Face    `json:"face"`
	Letters []ocr.Candidate `json:"letters,omitempty"`
	Digits  []ocr.Candidate `json:"digits,omitempty"`
	// Problem explains why the cell carries the maximum error, if it does.
	Problem string `json:"problem,omitempty"`
}

// FrameReport is everything ReadFrame learned about a frame besides the
// credential itself.
type FrameReport struct {
	Candidates    int                          `json:"candidates"`
	Rejected      int                          `json:"rejected"`
	Lines         []undoverline.Undoverline    `json:"-"`
	Dice          int                          `json:"dice"`
	PairedDice    int                          `json:"paired_dice"`
	PixelsPerMM   float64                      `json:"pixels_per_mm"`
	Grid          *grid.Model                  `json:"grid,omitempty"`
	Cells         [dicekey.NumFaces]CellReport `json:"cells"`
	LettersUnique bool                         `json:"letters_unique"`
}

// Reader decodes frames with one calibration and one OCR backend.
type Reader struct {
	cal        config.Calibration
	recognizer ocr.Recognizer

	// Logf, when set, receives debug messages.
	Logf func(format string, args ...any)
}

// NewReader creates a reader.
func NewReader(cal config.Calibration, recognizer ocr.Recognizer) *Reader {
	return &Reader{cal: cal, recognizer: recognizer}
}

// Calibration returns the reader's calibration.
func (r *Reader) Calibration() config.Calibration { return r.cal }

func (r *Reader) logf(format string, args ...any) {
	if r.Logf != nil {
		r.Logf(format, args...)
	}
}

// ReadFrame decodes the key visible in img from the rectangle candidates
// found in it.
//
// When no grid can be fitted the returned credential is uninitialized and
// the error wraps dicekey.ErrGridNotFound; the report still lists the bars
// that were decoded. Faces that could not be read carry the maximum error
// and do not fail the frame. A frame whose letters repeat is returned with
// every face at the maximum error and a nil error.
func (r *Reader) ReadFrame(img image.Image, rects []geometry.RotatedRect) (dicekey.Credential, *FrameReport, error) {
	report := &FrameReport{Candidates: len(rects)}
	gray := imaging.Grayscale(img)
	sampler := imaging.NewSampler(gray)

	for _, rect := range rects {
		u, err := undoverline.Read(sampler, rect, r.cal)
		if err != nil {
			report.Rejected++
			continue
		}
		report.Lines = append(report.Lines, u)
	}
	r.logf("frame: %d candidates, %d bars decoded", len(rects), len(report.Lines))
	if len(report.Lines) == 0 {
		return dicekey.Credential{}, report, fmt.Errorf("%w: no bars decoded", dicekey.ErrGridNotFound)
	}

	report.PixelsPerMM = grid.PixelsPerMM(report.Lines, r.cal)
	dice := grid.PairDice(report.Lines, r.cal.PairingToleranceMM*report.PixelsPerMM)
	report.Dice = len(dice)
	for _, d := range dice {
		if d.Paired() {
			report.PairedDice++
		}
	}

	model, err := grid.Reconstruct(dice, report.PixelsPerMM, r.cal)
	if err != nil {
		r.logf("frame: %v", err)
		return dicekey.Credential{}, report, err
	}
	report.Grid = model

	var faces [dicekey.NumFaces]dicekey.Face
	for _, cell := range model.Cells(report.Lines) {
		cr, face := r.readCell(gray, model, cell, report.PixelsPerMM)
		report.Cells[cell.Index] = cr
		faces[cell.Index] = face
	}

	cred := dicekey.NewCredential(faces)
	report.LettersUnique = true
	if err := cred.EnforceUniqueLetters(); err != nil {
		report.LettersUnique = false
		r.logf("frame: %v", err)
		for i := range report.Cells {
			report.Cells[i].Face = cred.Faces[i]
		}
	}
	return cred, report, nil
}

// readCell reads the face in one grid cell.
func (r *Reader) readCell(gray *image.Gray, model *grid.Model, cell grid.Cell, ppm float64) (CellReport, dicekey.Face) {
	cr := CellReport{Index: cell.Index, Center: cell.Center, Read: cell.Read()}
	if !cell.Read() {
		cr.Face = dicekey.UnreadFace()
		cr.Problem = dicekey.ErrFaceUnreadable.Error()
		return cr, cr.Face
	}

	in := FaceReading{}
	var centers []geometry.Point
	var angles, thresholds []float64
	for _, u := range []*undoverline.Undoverline{cell.Underline, cell.Overline} {
		if u == nil {
			continue
		}
		centers = append(centers, u.DieCenter)
		angles = append(angles, u.Angle())
		thresholds = append(thresholds, u.Threshold)
	}
	if cell.Underline != nil {
		in.Underline = &cell.Underline.Reading
	}
	if cell.Overline != nil {
		in.Overline = &cell.Overline.Reading
	}

	center := centers[0]
	angle := angles[0]
	level := thresholds[0]
	if len(centers) == 2 {
		center = geometry.Midpoint(centers[0], centers[1])
		angle = math.Atan2(math.Sin(angles[0])+math.Sin(angles[1]), math.Cos(angles[0])+math.Cos(angles[1]))
		level = (thresholds[0] + thresholds[1]) / 2
	}
	in.Orientation = geometry.QuarterTurns(geometry.NormalizeAngle(angle - model.Angle()))

	letters, digits, err := r.recognize(gray, center, angle, level, ppm)
	if err != nil {
		r.logf("cell %d: %v", cell.Index, err)
	}
	in.Letters, in.Digits = letters, digits
	cr.Letters, cr.Digits = letters, digits

	cr.Face = AssembleFace(in, r.cal)
	if cr.Face.Error.Magnitude >= dicekey.MaxErrorMagnitude {
		if len(letters) == 0 && len(digits) == 0 {
			cr.Problem = fmt.Sprintf("%v: no OCR result", dicekey.ErrFaceUnreadable)
		} else {
			cr.Problem = "underline, overline and OCR disagree"
		}
	}
	return cr, cr.Face
}

// recognize crops the text between a die's bars and runs OCR on the letter
// and digit halves.
func (r *Reader) recognize(gray *image.Gray, center geometry.Point, angle, level, ppm float64) (letters, digits []ocr.Candidate, err error) {
	if r.recognizer == nil {
		return nil, nil, errors.New("no recognizer configured")
	}
	w := int(math.Round(r.cal.TextWidthMM * ppm))
	h := int(math.Round(r.cal.TextHeightMM * ppm))
	text, err := imaging.ExtractGlyph(gray, center, angle, w, h, level)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to extract text: %w", err)
	}
	letterImg, digitImg := imaging.SplitGlyphs(text)

	letters, err = r.recognizer.Recognize(letterImg, dicekey.Letters)
	if err != nil {
		return nil, nil, fmt.Errorf("letter OCR failed: %w", err)
	}
	digits, err = r.recognizer.Recognize(digitImg, dicekey.Digits)
	if err != nil {
		return letters, nil, fmt.Errorf("digit OCR failed: %w", err)
	}
	return letters, digits, nil
}
