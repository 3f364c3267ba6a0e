package ui

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"SketchBoard/internal/export"
	"SketchBoard/internal/state"
)

const (
	areaSelected = "Selected area"
	areaCanvas   = "Entire canvas"

	kindGuidance        = "Guidance"
	kindRecommendations = "Recommendations"
	kindBoth            = "Both"
)

func (a *App) confirmClear() {
	dialog.ShowConfirm("Clear All", "Are you sure you want to clear all drawings on this page?", func(ok bool) {
		if !ok {
			return
		}
		if err := a.tr.ClearAll(); err != nil {
			dialog.ShowError(err, a.win)
		}
		a.board.Refresh()
	}, a.win)
}

func (a *App) deleteSelection() {
	n, err := a.tr.DeleteSelected()
	if err != nil {
		dialog.ShowError(err, a.win)
		return
	}
	if n == 0 {
		a.setStatus("Nothing selected")
		return
	}
	a.board.Refresh()
	a.setStatus(fmt.Sprintf("Deleted %d strokes", n))
}

func (a *App) showPages() {
	pages := a.pages.Pages()
	var d dialog.Dialog

	list := widget.NewList(
		func() int { return len(pages) },
		func() fyne.CanvasObject { return widget.NewLabel("Page") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			label := fmt.Sprintf("Page %s (%d strokes)", pages[i].ID, len(pages[i].Strokes))
			if pages[i].ID == a.pages.CurrentPageID() {
				label += "  current"
			}
			o.(*widget.Label).SetText(label)
		},
	)
	list.OnSelected = func(i widget.ListItemID) {
		a.pages.SelectPage(pages[i].ID)
		a.tr.ClearSelection()
		d.Hide()
	}
	add := widget.NewButton("New Page", func() {
		a.pages.CreatePage()
		a.tr.ClearSelection()
		d.Hide()
	})

	content := container.NewBorder(nil, add, nil, nil, list)
	d = dialog.NewCustom("Pages", "Close", content, a.win)
	d.Resize(fyne.NewSize(320, 400))
	d.Show()
}

// showExportOptions asks what to capture and what to ask the service for.
// region is the rectangle drawn in export mode, or nil.
func (a *App) showExportOptions(region *state.Rect) {
	areas := []string{areaCanvas}
	if region != nil {
		areas = []string{areaSelected, areaCanvas}
	}
	area := widget.NewRadioGroup(areas, nil)
	area.SetSelected(areas[0])
	area.Required = true

	kind := widget.NewRadioGroup([]string{kindGuidance, kindRecommendations, kindBoth}, nil)
	kind.SetSelected(kindGuidance)
	kind.Required = true

	form := container.NewVBox(
		widget.NewLabel("Capture"), area,
		widget.NewLabel("Ask for"), kind,
	)
	dialog.ShowCustomConfirm("Export Options", "Submit", "Cancel", form, func(ok bool) {
		a.tr.ClearExportRect()
		a.board.Refresh()
		if !ok {
			return
		}
		req := export.Request{Target: targetFor(kind.Selected)}
		if area.Selected == areaSelected {
			req.Region = region
		}
		a.runAnalysis(req)
	}, a.win)
}

func targetFor(kind string) export.Target {
	switch kind {
	case kindRecommendations:
		return export.TargetRecommendations
	case kindBoth:
		return export.TargetBoth
	}
	return export.TargetGuidance
}

func (a *App) runAnalysis(req export.Request) {
	if a.opts.Pipeline == nil {
		dialog.ShowError(errors.New("analysis is not configured"), a.win)
		return
	}
	progress := dialog.NewCustomWithoutButtons("Analyzing drawing...", widget.NewProgressBarInfinite(), a.win)
	progress.Show()

	a.opts.Pipeline.RunAsync(context.Background(), req, func(res *export.Result, err error) {
		fyne.Do(func() {
			progress.Hide()
			if err != nil {
				a.log.Error("[ui] analysis failed: %v", err)
				dialog.ShowError(err, a.win)
				return
			}
			a.showResult(res)
		})
	})
}

func (a *App) showResult(res *export.Result) {
	box := container.NewVBox()
	if res.Guidance != nil {
		text := widget.NewRichTextFromMarkdown(res.Guidance.Content)
		text.Wrapping = fyne.TextWrapWord
		box.Add(text)
	}
	if r := res.Recommendations; r != nil {
		if r.ExtractedTopic != "" {
			box.Add(widget.NewLabelWithStyle("Topic: "+r.ExtractedTopic, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}))
		}
		if r.ProcessedText != "" {
			recognized := widget.NewLabel(r.ProcessedText)
			recognized.Wrapping = fyne.TextWrapWord
			box.Add(recognized)
		}
		for _, item := range r.Items {
			link, err := url.Parse(item.Link)
			if err != nil {
				a.log.Debug("[ui] skipping bad link %q: %v", item.Link, err)
				continue
			}
			box.Add(widget.NewHyperlink(item.Title, link))
		}
		if len(r.Items) == 0 {
			box.Add(widget.NewLabel("No recommendations found."))
		}
	}

	scroll := container.NewVScroll(box)
	scroll.SetMinSize(fyne.NewSize(420, 320))
	dialog.ShowCustom("Result", "Close", scroll, a.win)
}

func (a *App) savePNG() {
	if a.opts.Pipeline == nil {
		return
	}
	artifact, err := a.opts.Pipeline.Snapshot(nil)
	if err != nil {
		dialog.ShowError(err, a.win)
		return
	}
	a.saveFile(fmt.Sprintf("page-%s.png", a.pages.CurrentPageID()), func(w fyne.URIWriteCloser) error {
		_, err := w.Write(artifact.PNG)
		return err
	})
}

func (a *App) savePDF() {
	page := a.pages.CurrentPage()
	a.saveFile(fmt.Sprintf("page-%s.pdf", page.ID), func(w fyne.URIWriteCloser) error {
		return export.WritePDF(w, page.Strokes, export.PDFOptions{Title: "Page " + page.ID})
	})
}

func (a *App) saveFile(name string, write func(fyne.URIWriteCloser) error) {
	d := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.win)
			return
		}
		if w == nil {
			return
		}
		defer func() {
			if err := w.Close(); err != nil {
				a.log.Error("[ui] error closing %s: %v", w.URI(), err)
			}
		}()
		if err := write(w); err != nil {
			a.log.Error("[ui] error writing %s: %v", w.URI(), err)
			dialog.ShowError(err, a.win)
			return
		}
		a.setStatus("Saved " + w.URI().Name())
	}, a.win)
	d.SetFileName(name)
	d.Show()
}

func (a *App) showShareLink() {
	link := widget.NewEntry()
	link.SetText(a.opts.ShareLink)
	copyBtn := widget.NewButton("Copy", func() {
		a.win.Clipboard().SetContent(a.opts.ShareLink)
		a.setStatus("Share link copied")
	})
	content := container.NewVBox(
		widget.NewLabel("Open this link on another device on the same network:"),
		link,
		copyBtn,
	)
	dialog.ShowCustom("Share Board", "Close", content, a.win)
}
