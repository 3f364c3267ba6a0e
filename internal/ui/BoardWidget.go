package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"

	"SketchBoard/internal/gesture"
	"SketchBoard/internal/state"
	sbtheme "SketchBoard/internal/theme"
)

// BoardWidget draws the current page and feeds pointer and touch events to
// the gesture translator. It holds no stroke data of its own.
type BoardWidget struct {
	widget.BaseWidget
	pages   *state.Collection
	tr      *gesture.Translator
	palette func() sbtheme.Palette
	cancel  func()
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)
var _ mobile.Touchable = (*BoardWidget)(nil)

func NewBoardWidget(pages *state.Collection, tr *gesture.Translator, palette func() sbtheme.Palette) *BoardWidget {
	b := &BoardWidget{pages: pages, tr: tr, palette: palette}
	b.ExtendBaseWidget(b)
	// ops may come from the share connection, so hop onto the UI goroutine
	b.cancel = pages.Subscribe(func(state.Change) {
		fyne.Do(b.Refresh)
	})
	return b
}

// Detach stops listening to the page collection.
func (b *BoardWidget) Detach() {
	b.cancel()
}

func toPoint(p fyne.Position) state.Point {
	return state.Point{X: float64(p.X), Y: float64(p.Y)}
}

func (b *BoardWidget) press(p fyne.Position) {
	b.tr.Down(toPoint(p))
	b.Refresh()
}

func (b *BoardWidget) release() {
	b.tr.Up()
	b.Refresh()
}

func (b *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonPrimary {
		b.press(e.Position)
	}
}

func (b *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonPrimary {
		b.release()
	}
}

func (b *BoardWidget) Dragged(e *fyne.DragEvent) {
	b.tr.Move(toPoint(e.Position))
	b.Refresh()
}

func (b *BoardWidget) DragEnd() {
	b.release()
}

func (b *BoardWidget) TouchDown(e *mobile.TouchEvent) {
	b.press(e.Position)
}

func (b *BoardWidget) TouchUp(*mobile.TouchEvent) {
	b.release()
}

func (b *BoardWidget) TouchCancel(*mobile.TouchEvent) {
	b.release()
}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	r := &boardWidgetRenderer{board: b, background: canvas.NewRectangle(color.White)}
	r.rebuild()
	return r
}

type boardWidgetRenderer struct {
	board      *BoardWidget
	background *canvas.Rectangle
	objects    []fyne.CanvasObject
}

func (r *boardWidgetRenderer) rebuild() {
	b := r.board
	p := b.palette()
	r.background.FillColor = sbtheme.Color(p.Background, color.White)
	r.background.Resize(b.Size())

	objects := []fyne.CanvasObject{r.background}
	selected := sbtheme.Color(p.Success, color.NRGBA{G: 200, A: 255})
	for _, s := range b.pages.CurrentPage().Strokes {
		c := sbtheme.Color(s.Color, color.Black)
		if b.tr.IsSelected(s.ID) {
			c = selected
		}
		objects = appendStroke(objects, s, c)
	}
	if s, ok := b.tr.InProgress(); ok {
		style := b.tr.Style()
		s.Width = style.Width
		objects = appendStroke(objects, s, sbtheme.Color(style.Color, color.Black))
	}

	outline := sbtheme.Color(p.Primary, color.Black)
	if box := b.tr.Box(); box.Visible {
		objects = append(objects, outlineRect(box.Rect(), outline))
	}
	if rect, ok := b.tr.ExportRect(); ok {
		objects = append(objects, outlineRect(rect, outline))
	}
	r.objects = objects
}

func appendStroke(objects []fyne.CanvasObject, s state.Stroke, c color.Color) []fyne.CanvasObject {
	w := float32(s.Width)
	if w <= 0 {
		w = 1
	}
	if len(s.Points) == 1 {
		dot := canvas.NewCircle(c)
		p := s.Points[0]
		dot.Move(fyne.NewPos(float32(p.X)-w/2, float32(p.Y)-w/2))
		dot.Resize(fyne.NewSize(w, w))
		return append(objects, dot)
	}
	for i := 1; i < len(s.Points); i++ {
		segment := canvas.NewLine(c)
		segment.StrokeWidth = w
		segment.Position1 = fyne.NewPos(float32(s.Points[i-1].X), float32(s.Points[i-1].Y))
		segment.Position2 = fyne.NewPos(float32(s.Points[i].X), float32(s.Points[i].Y))
		objects = append(objects, segment)
	}
	return objects
}

func outlineRect(r state.Rect, c color.Color) fyne.CanvasObject {
	rect := canvas.NewRectangle(color.Transparent)
	rect.StrokeColor = c
	rect.StrokeWidth = 1
	rect.Move(fyne.NewPos(float32(r.X), float32(r.Y)))
	rect.Resize(fyne.NewSize(float32(r.W), float32(r.H)))
	return rect
}

func (r *boardWidgetRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *boardWidgetRenderer) Refresh() {
	r.rebuild()
	canvas.Refresh(r.board)
}

func (r *boardWidgetRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)
}

func (r *boardWidgetRenderer) MinSize() fyne.Size {
	return fyne.NewSize(300, 300)
}

func (r *boardWidgetRenderer) Destroy() {}
