package usecase

import (
	"context"
	"fmt"
	"rental-autotest/internal/entity"
	"rental-autotest/internal/site"
	"rental-autotest/pkg/apperr"
)

func (o *Orchestrator) searchCar(ctx context.Context, r *run, cmd entity.Command) (string, error) {
	r.advance("fill search field")

	if err := r.session.Fill(ctx, site.SearchInput, cmd.Query); err != nil {
		return "", err
	}

	if err := r.settle(ctx, o.waits.Short); err != nil {
		return "", err
	}

	r.checkpoint(ctx, r.session, fmt.Sprintf("Before searching for '%s'", cmd.Query))

	r.advance("submit search")

	view, err := r.session.ExpectView(ctx, func() error {
		return r.session.Click(ctx, site.SearchButton)
	})
	if err != nil {
		return "", err
	}

	url, err := r.captureSpawned(ctx, view, o.waits.Spawned, fmt.Sprintf("Search results for '%s'", cmd.Query))
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("Search completed for '%s'. New page: %s", cmd.Query, url), nil
}

func (o *Orchestrator) fillBookingForm(ctx context.Context, r *run, cmd entity.Command) (string, error) {
	if err := o.openSection(ctx, r, site.SectionBooking); err != nil {
		return "", err
	}

	r.checkpoint(ctx, r.session, "Empty booking form")

	form := cmd.FormData
	if form == nil {
		form = &entity.FormData{}
	}

	r.advance("fill booking fields")

	fields := []struct {
		selector string
		value    string
	}{
		{site.BookingName, form.Name},
		{site.BookingEmail, form.Email},
		{site.BookingStart, form.StartDate},
		{site.BookingEnd, form.EndDate},
	}

	for _, f := range fields {
		if err := r.session.Fill(ctx, f.selector, f.value); err != nil {
			return "", err
		}
	}

	if err := r.session.SelectOption(ctx, site.BookingCarType, form.CarType); err != nil {
		return "", err
	}

	if flagSet(form.CDW) {
		if err := r.session.Check(ctx, site.BookingCDW); err != nil {
			return "", err
		}
	}

	if flagSet(form.Terms) {
		if err := r.session.Check(ctx, site.BookingTerms); err != nil {
			return "", err
		}
	}

	if err := r.settle(ctx, o.waits.Short); err != nil {
		return "", err
	}

	r.checkpoint(ctx, r.session, "Filled booking form")

	return "Booking form filled successfully", nil
}

func (o *Orchestrator) submitBooking(ctx context.Context, r *run, _ entity.Command) (string, error) {
	if err := o.openSection(ctx, r, site.SectionBooking); err != nil {
		return "", err
	}

	r.checkpoint(ctx, r.session, "Before submitting booking")

	r.advance("submit booking")

	view, err := r.session.ExpectView(ctx, func() error {
		return r.session.Click(ctx, site.BookingSubmit)
	})
	if err != nil {
		return "", err
	}

	url, err := r.captureSpawned(ctx, view, o.waits.Spawned, "Booking submission result")
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("Booking submitted. Redirect page: %s", url), nil
}

func (o *Orchestrator) resetForm(ctx context.Context, r *run, _ entity.Command) (string, error) {
	if err := o.openSection(ctx, r, site.SectionBooking); err != nil {
		return "", err
	}

	r.checkpoint(ctx, r.session, "Before form reset")

	r.advance("click reset")

	if err := r.session.Click(ctx, site.BookingReset); err != nil {
		return "", err
	}

	if err := r.settle(ctx, o.waits.Short); err != nil {
		return "", err
	}

	r.checkpoint(ctx, r.session, "After form reset")

	return "Form reset completed", nil
}

func (o *Orchestrator) navigateToSection(ctx context.Context, r *run, cmd entity.Command) (string, error) {
	r.checkpoint(ctx, r.session, fmt.Sprintf("Before navigating to %s", cmd.Section))

	if err := o.openSection(ctx, r, cmd.Section); err != nil {
		return "", err
	}

	r.checkpoint(ctx, r.session, fmt.Sprintf("After navigating to %s", cmd.Section))

	return fmt.Sprintf("Navigated to section: %s", cmd.Section), nil
}

func (o *Orchestrator) testContactLinks(ctx context.Context, r *run, _ entity.Command) (string, error) {
	r.advance("scroll to contact")

	if err := r.session.ScrollIntoView(ctx, site.ContactBlock); err != nil {
		return "", err
	}

	if err := r.settle(ctx, o.waits.Short); err != nil {
		return "", err
	}

	r.checkpoint(ctx, r.session, "Contact section")

	r.advance("click first contact link")

	dialogs := r.session.AcceptDialogs(ctx)

	if err := r.session.Click(ctx, site.FirstContactURL); err != nil {
		return "", err
	}

	if err := r.settle(ctx, o.waits.Section); err != nil {
		return "", err
	}

	r.checkpoint(ctx, r.session, "After contact dialog")

	return fmt.Sprintf("Contact link tested. Dialog: %s", dialogs.Message()), nil
}

func (o *Orchestrator) checkPricing(ctx context.Context, r *run, cmd entity.Command) (string, error) {
	const op = "checkPricing"

	if err := o.openSection(ctx, r, site.SectionPricing); err != nil {
		return "", err
	}

	r.checkpoint(ctx, r.session, "Pricing table")

	ordinal, err := carOrdinal(op, cmd.CarType)
	if err != nil {
		return "", err
	}

	r.advance("read price cell")

	price, err := r.session.TextContent(ctx, site.PriceCell(ordinal))
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s price per day: %s", cmd.CarType, price), nil
}

func (o *Orchestrator) validateEmptyForm(ctx context.Context, r *run, _ entity.Command) (string, error) {
	if err := o.openSection(ctx, r, site.SectionBooking); err != nil {
		return "", err
	}

	r.checkpoint(ctx, r.session, "Empty form for validation")

	r.advance("submit empty form")

	dialogs := r.session.AcceptDialogs(ctx)

	if err := r.session.Click(ctx, site.BookingSubmit); err != nil {
		return "", err
	}

	if err := r.settle(ctx, o.waits.Section); err != nil {
		return "", err
	}

	r.checkpoint(ctx, r.session, "After validation attempt")

	return fmt.Sprintf("Empty form validation tested. Message: %s", dialogs.Message()), nil
}

func (o *Orchestrator) checkCarDetails(ctx context.Context, r *run, cmd entity.Command) (string, error) {
	const op = "checkCarDetails"

	if err := o.openSection(ctx, r, site.SectionCars); err != nil {
		return "", err
	}

	r.checkpoint(ctx, r.session, "Cars section")

	ordinal, err := carOrdinal(op, cmd.CarType)
	if err != nil {
		return "", err
	}

	r.advance("read car label")

	label, err := r.session.TextContent(ctx, site.CarLabel(ordinal))
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("Car type: %s", label), nil
}

// openSection clicks the navigation anchor for section and lets it settle.
func (o *Orchestrator) openSection(ctx context.Context, r *run, section string) error {
	r.advance("open section " + section)

	if err := r.session.Click(ctx, site.SectionAnchor(section)); err != nil {
		return err
	}

	return r.settle(ctx, o.waits.Section)
}

func carOrdinal(op, carType string) (int, error) {
	n, ok := site.Ordinal(carType)
	if !ok {
		return 0, apperr.Wrap(op, apperr.CodeInvalidArgument, fmt.Errorf("unknown car type %q", carType), map[string]any{
			apperr.MetaField:  "car_type",
			apperr.MetaReason: "unknown_car_type",
			apperr.MetaStage:  apperr.StageInteraction,
		})
	}

	return n, nil
}

func flagSet(b *bool) bool {
	return b != nil && *b
}
