package carousel

import (
	"context"
	"time"
)

type Slide struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Image    string `json:"image"`
}

type Testimonial struct {
	Author  string `json:"author"`
	Country string `json:"country"`
	Quote   string `json:"quote"`
	Rating  int    `json:"rating"`
}

type Advantage struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Carousel names accepted by Landing.Carousel.
const (
	Hero         = "hero"
	Testimonials = "testimonials"
	Advantages   = "advantages"
)

var heroSlides = []Slide{
	{"Stay connected everywhere", "Mobile data in 11 countries without changing SIM", "/images/hero/travel.jpg"},
	{"Activate in minutes", "Scan a QR code and you are online on arrival", "/images/hero/activation.jpg"},
	{"No roaming surprises", "Prepaid packages with a fixed price", "/images/hero/pricing.jpg"},
}

var testimonials = []Testimonial{
	{"Aminata D.", "Senegal", "Installed on the plane, connected as soon as I landed in Paris.", 5},
	{"Karim B.", "Morocco", "Much cheaper than roaming for my trip to Spain.", 5},
	{"Sophie L.", "France", "The QR code arrived right after payment, very simple.", 4},
}

var advantages = []Advantage{
	{"Instant delivery", "Your eSIM is delivered by email as soon as the payment clears", "bolt"},
	{"Local networks", "We partner with the leading operator in every destination", "signal"},
	{"Keep your number", "Your physical SIM stays in place for calls and SMS", "phone"},
	{"Support 7/7", "A team available when you travel", "support"},
}

// Landing owns the three landing page rotators.
type Landing struct {
	hero         *Rotator
	testimonials *Rotator
	advantages   *Rotator
}

func NewLanding() *Landing {
	return &Landing{
		hero:         NewRotator(len(heroSlides), 5*time.Second),
		testimonials: NewRotator(len(testimonials), 6*time.Second),
		advantages:   NewRotator(len(advantages), 4*time.Second),
	}
}

func (l *Landing) Start(ctx context.Context) {
	l.hero.Start(ctx)
	l.testimonials.Start(ctx)
	l.advantages.Start(ctx)
}

func (l *Landing) Carousel(name string) (*Rotator, bool) {
	switch name {
	case Hero:
		return l.hero, true
	case Testimonials:
		return l.testimonials, true
	case Advantages:
		return l.advantages, true
	}
	return nil, false
}

type CarouselView[T any] struct {
	Index int   `json:"index"`
	State State `json:"state"`
	Items []T   `json:"items"`
}

type LandingView struct {
	Hero         CarouselView[Slide]       `json:"hero"`
	Testimonials CarouselView[Testimonial] `json:"testimonials"`
	Advantages   CarouselView[Advantage]   `json:"advantages"`
}

func (l *Landing) Snapshot() LandingView {
	return LandingView{
		Hero:         view(l.hero, heroSlides),
		Testimonials: view(l.testimonials, testimonials),
		Advantages:   view(l.advantages, advantages),
	}
}

func view[T any](r *Rotator, items []T) CarouselView[T] {
	return CarouselView[T]{Index: r.Current(), State: r.State(), Items: items}
}
