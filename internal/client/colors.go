package client

import (
	"fmt"
	"net/http"

	"github.com/existflow/daygrid/internal/model"
)

// Colors lists the user's saved palette.
func (c *Client) Colors() ([]model.UserColor, error) {
	resp, err := c.do("GET", "/api/usercolors", nil)
	if err != nil {
		return nil, err
	}

	var colors []model.UserColor
	if err := decode(resp, http.StatusOK, &colors); err != nil {
		return nil, err
	}
	return colors, nil
}

// CreateColor adds a color to the palette.
func (c *Client) CreateColor(name, hex string) (*model.UserColor, error) {
	resp, err := c.do("POST", "/api/usercolors", map[string]string{
		"name": name,
		"hex":  hex,
	})
	if err != nil {
		return nil, err
	}

	var color model.UserColor
	if err := decode(resp, http.StatusCreated, &color); err != nil {
		return nil, err
	}
	return &color, nil
}

// UpdateColor renames or recolors a palette entry.
func (c *Client) UpdateColor(id int64, name, hex string) (*model.UserColor, error) {
	resp, err := c.do("PUT", fmt.Sprintf("/api/usercolors/%d", id), map[string]string{
		"name": name,
		"hex":  hex,
	})
	if err != nil {
		return nil, err
	}

	var color model.UserColor
	if err := decode(resp, http.StatusOK, &color); err != nil {
		return nil, err
	}
	return &color, nil
}

// DeleteColor removes a palette entry.
func (c *Client) DeleteColor(id int64) error {
	resp, err := c.do("DELETE", fmt.Sprintf("/api/usercolors/%d", id), nil)
	if err != nil {
		return err
	}
	return decode(resp, http.StatusOK, nil)
}
