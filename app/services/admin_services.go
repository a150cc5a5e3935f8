package services

import (
	"context"

	"github.com/shashiranjanraj/storefront/pkg/api"
)

type AdminService struct{ base }

func (s *AdminService) Users(ctx context.Context) ([]api.User, error) {
	token, err := s.token()
	if err != nil {
		return nil, err
	}
	return s.api.Users(ctx, token)
}

// StubView stands in for admin screens that have no behaviour yet.
type StubView struct {
	Title string `json:"title"`
	ID    string `json:"id,omitempty"`
}

func (s *AdminService) ProductList() StubView { return StubView{Title: "Admin Product List"} }

func (s *AdminService) ProductEdit(id string) StubView {
	return StubView{Title: "Admin Product Edit", ID: id}
}

func (s *AdminService) OrderList() StubView { return StubView{Title: "Admin Order List"} }
