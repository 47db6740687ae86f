package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/BouramaNG/designfrontwaw-sub001/internal/domain/esim"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/envelope"
)

type PackageService struct {
	api    Requester
	logger *slog.Logger
}

func NewPackageService(api Requester, logger *slog.Logger) *PackageService {
	return &PackageService{api: api, logger: loggerOrDefault(logger)}
}

func (s *PackageService) List(ctx context.Context) []esim.Package {
	raw, err := s.api.Get(ctx, "/esim-packages")
	if err != nil {
		s.logger.Warn("packages: list failed", "error", err)
		return []esim.Package{}
	}
	return esim.ValidOnly(envelope.List[esim.Package](raw, "packages"))
}

// FetchCountry returns the priced packages for one country. Unlike the other
// reads it reports transport and HTTP failures, so batch callers can count
// them; an unrecognised body is still just an empty list.
func (s *PackageService) FetchCountry(ctx context.Context, countryCode string) ([]esim.Package, error) {
	code := strings.ToUpper(strings.TrimSpace(countryCode))
	raw, err := s.api.Get(ctx, "/esim-packages/"+url.PathEscape(code)+"/with-price")
	if err != nil {
		return nil, fmt.Errorf("fetch packages for %s: %w", code, err)
	}
	return esim.ValidOnly(envelope.List[esim.Package](raw, "packages")), nil
}

func (s *PackageService) ByCountry(ctx context.Context, countryCode string) []esim.Package {
	pkgs, err := s.FetchCountry(ctx, countryCode)
	if err != nil {
		s.logger.Warn("packages: country fetch failed", "country", countryCode, "error", err)
		return []esim.Package{}
	}
	return pkgs
}

func (s *PackageService) ByID(ctx context.Context, id string) *esim.Package {
	raw, err := s.api.Get(ctx, "/esim-packages/"+url.PathEscape(id))
	if err != nil {
		s.logger.Warn("packages: get failed", "package_id", id, "error", err)
		return nil
	}
	return envelope.One[esim.Package](raw, "package")
}

// Destinations is the backend's own destination list. Packages are attached
// later, so every entry starts with an empty list.
func (s *PackageService) Destinations(ctx context.Context) []esim.Destination {
	raw, err := s.api.Get(ctx, "/esim-purchase/destinations")
	if err != nil {
		s.logger.Warn("packages: destinations failed", "error", err)
		return []esim.Destination{}
	}
	dests := envelope.List[esim.Destination](raw, "destinations")
	for i := range dests {
		if dests[i].Packages == nil {
			dests[i].Packages = []esim.Package{}
		}
	}
	return dests
}

func (s *PackageService) CheckAvailability(ctx context.Context, packageID string) Result[esim.Availability] {
	raw, err := s.api.Post(ctx, "/esim-purchase/check-availability", map[string]string{"package_id": packageID})
	if err != nil {
		s.logger.Warn("packages: availability check failed", "package_id", packageID, "error", err)
		return fail[esim.Availability](failureMessage(err, "Unable to check availability"))
	}
	success, msg := envelope.Outcome(raw)
	if !success {
		return fail[esim.Availability](orDefault(msg, "Package unavailable"))
	}
	av := single[esim.Availability](raw, "availability")
	if av == nil {
		return fail[esim.Availability]("Unable to check availability")
	}
	return ok(av, msg)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
