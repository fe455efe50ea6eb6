package ui

import (
	"fmt"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/curl-downloader/internal/model"
)

// itemFromForm builds and validates a descriptor from the raw form fields
func itemFromForm(rawURL, outputName, proxyServer, proxyPort, protocol string) (model.ItemDescriptor, error) {
	item := model.ItemDescriptor{
		SourceURL:     strings.TrimSpace(rawURL),
		OutputName:    strings.TrimSpace(outputName),
		ProxyServer:   strings.TrimSpace(proxyServer),
		ProxyProtocol: model.ProxyProtocol(protocol),
	}

	if port := strings.TrimSpace(proxyPort); port != "" {
		value, err := strconv.Atoi(port)
		if err != nil {
			return model.ItemDescriptor{}, fmt.Errorf("%w: proxy port %q is not a number", model.ErrInvalidItem, port)
		}
		item.ProxyPort = value
	}

	item.Normalize()
	if err := item.Validate(); err != nil {
		return model.ItemDescriptor{}, err
	}
	return item, nil
}

// ShowItemDialog shows the add/edit form prefilled with item. lockURL keeps
// the source URL read-only, as an existing task cannot switch resources.
// onSubmit receives the validated descriptor.
func ShowItemDialog(window fyne.Window, title string, item model.ItemDescriptor, lockURL bool, onSubmit func(model.ItemDescriptor)) {
	urlEntry := newURLEntry(item.SourceURL, lockURL)

	nameEntry := widget.NewEntry()
	nameEntry.SetPlaceHolder("Derived from the URL when empty")
	nameEntry.SetText(item.OutputName)

	serverEntry := widget.NewEntry()
	serverEntry.SetPlaceHolder("IPv4 address")
	serverEntry.SetText(item.ProxyServer)

	portEntry := widget.NewEntry()
	portEntry.SetPlaceHolder("1-65535")
	if item.ProxyPort > 0 {
		portEntry.SetText(strconv.Itoa(item.ProxyPort))
	}

	protocols := make([]string, 0, len(model.ProxyProtocolOptions()))
	for _, protocol := range model.ProxyProtocolOptions() {
		protocols = append(protocols, string(protocol))
	}
	protocolSelect := widget.NewSelect(protocols, nil)
	if item.ProxyProtocol == "" {
		protocolSelect.SetSelected(string(model.ProxyNone))
	} else {
		protocolSelect.SetSelected(string(item.ProxyProtocol))
	}

	items := []*widget.FormItem{
		widget.NewFormItem("URL", urlEntry),
		widget.NewFormItem("Output name", nameEntry),
		widget.NewFormItem("Proxy server", serverEntry),
		widget.NewFormItem("Proxy port", portEntry),
		widget.NewFormItem("Proxy protocol", protocolSelect),
	}

	form := dialog.NewForm(title, "OK", "Cancel", items, func(confirmed bool) {
		if !confirmed {
			return
		}
		result, err := itemFromForm(urlEntry.Text, nameEntry.Text, serverEntry.Text, portEntry.Text, protocolSelect.Selected)
		if err != nil {
			dialog.ShowError(err, window)
			return
		}
		onSubmit(result)
	}, window)
	form.Resize(fyne.NewSize(ItemDialogWidth, ItemDialogHeight))
	form.Show()
}

func newURLEntry(sourceURL string, locked bool) *widget.Entry {
	entry := widget.NewEntry()
	entry.SetPlaceHolder("https://example.com/file.iso")
	entry.SetText(sourceURL)
	entry.Validator = func(s string) error {
		_, err := itemFromForm(s, "", "", "", string(model.ProxyNone))
		return err
	}
	if locked {
		entry.Disable()
	}
	return entry
}
