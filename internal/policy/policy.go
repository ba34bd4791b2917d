// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package policy resolves, per request, which wire representation and which
// authorization predicate apply. All per-action behavior switching lives in
// one ordered table here so precedence is auditable in a single place:
// handlers never carry their own permission conditionals.
package policy

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"inkwell/internal/session"
)

// Resource names an API resource type.
type Resource string

const (
	ResourceArticle  Resource = "article"
	ResourceTag      Resource = "tag"
	ResourceCategory Resource = "category"
	ResourceComment  Resource = "comment"
	ResourceHomepage Resource = "homepage"
)

// Action names a handler action on a resource.
type Action string

const (
	ActionList          Action = "list"
	ActionRetrieve      Action = "retrieve"
	ActionCreate        Action = "create"
	ActionUpdate        Action = "update"
	ActionPartialUpdate Action = "partial_update"
	ActionDestroy       Action = "destroy"
	ActionComment       Action = "comment"
	ActionTop           Action = "top"
)

// Representation names a wire representation variant built by the repr package.
type Representation string

const (
	ReprArticleList     Representation = "article_list"
	ReprArticleDetail   Representation = "article_detail"
	ReprArticleCreate   Representation = "article_create"
	ReprArticleTop      Representation = "article_top"
	ReprArticleHomepage Representation = "article_homepage"
	ReprComment         Representation = "comment"
	ReprTag             Representation = "tag"
	ReprCategory        Representation = "category"
)

// Authorization failures. ErrUnauthenticated maps to 401, ErrForbidden to 403.
var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("permission denied")
)

// Request carries the inputs a predicate may inspect: the resolved actor
// (nil when unauthenticated) and, for ownership checks, the target
// resource's owner. The owner is threaded in explicitly by the handler,
// never read from ambient request state.
type Request struct {
	Actor   *session.Data
	OwnerID uuid.UUID
}

// Predicate decides whether a request may proceed. A nil error authorizes.
type Predicate func(Request) error

// AllowAny authorizes every request.
func AllowAny(Request) error { return nil }

// Authenticated requires a resolved actor.
func Authenticated(r Request) error {
	if r.Actor == nil {
		return ErrUnauthenticated
	}
	return nil
}

// Admin requires an actor holding the administrative role.
func Admin(r Request) error {
	if r.Actor == nil {
		return ErrUnauthenticated
	}
	if !r.Actor.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

// Owner requires the actor to be the target resource's owner.
func Owner(r Request) error {
	if r.Actor == nil {
		return ErrUnauthenticated
	}
	if r.Actor.UserID != r.OwnerID {
		return ErrForbidden
	}
	return nil
}

// Decision is the immutable outcome of policy resolution for one request:
// which representation to build and which predicate must pass before any
// handler work happens.
type Decision struct {
	Representation Representation
	Authorize      Predicate
}

// override is one entry in a resource's ordered predicate chain. An empty
// method matches every HTTP method; otherwise the override applies only to
// that verb, which is how the combined comment action narrows DELETE to
// owner-only while POST stays authenticated-only.
type override struct {
	action    Action
	method    string
	predicate Predicate
}

// resourcePolicy holds one resource's representation lookup and predicate
// override chain. Representations are a single lookup; predicates are
// resolved by walking the chain in order, later matches overriding earlier
// ones over the resource default.
type resourcePolicy struct {
	defaultPredicate Predicate
	representations  map[Action]Representation
	overrides        []override
}

// Table resolves policy decisions for every resource. It is built once at
// startup from configuration and read concurrently; it never mutates.
type Table struct {
	resources map[Resource]resourcePolicy
}

// Options configures policy construction.
type Options struct {
	// CategoryOpenWrites removes the authentication requirement from
	// category mutations, reproducing a fully public category resource.
	CategoryOpenWrites bool
}

// New builds the policy table.
func New(opts Options) *Table {
	categoryWrite := Predicate(Authenticated)
	if opts.CategoryOpenWrites {
		categoryWrite = AllowAny
	}

	return &Table{resources: map[Resource]resourcePolicy{
		ResourceArticle: {
			defaultPredicate: Authenticated,
			representations: map[Action]Representation{
				ActionList:          ReprArticleList,
				ActionRetrieve:      ReprArticleDetail,
				ActionCreate:        ReprArticleCreate,
				ActionUpdate:        ReprArticleDetail,
				ActionPartialUpdate: ReprArticleDetail,
				ActionDestroy:       ReprArticleDetail,
				ActionComment:       ReprComment,
			},
			// Order matters: the verb-specific comment override sits after
			// the general one, and ownership overrides the authenticated
			// default for mutations.
			overrides: []override{
				{action: ActionCreate, predicate: Admin},
				{action: ActionList, predicate: AllowAny},
				{action: ActionRetrieve, predicate: AllowAny},
				{action: ActionComment, predicate: Authenticated},
				{action: ActionComment, method: http.MethodDelete, predicate: Owner},
				{action: ActionUpdate, predicate: Owner},
				{action: ActionPartialUpdate, predicate: Owner},
				{action: ActionDestroy, predicate: Owner},
			},
		},
		ResourceTag: {
			defaultPredicate: Authenticated,
			representations: map[Action]Representation{
				ActionList:     ReprTag,
				ActionRetrieve: ReprTag,
				ActionCreate:   ReprTag,
				ActionDestroy:  ReprTag,
			},
			overrides: []override{
				{action: ActionList, predicate: AllowAny},
				{action: ActionRetrieve, predicate: AllowAny},
				{action: ActionCreate, predicate: Authenticated},
				{action: ActionDestroy, predicate: Admin},
			},
		},
		ResourceCategory: {
			defaultPredicate: categoryWrite,
			representations: map[Action]Representation{
				ActionList:          ReprCategory,
				ActionRetrieve:      ReprCategory,
				ActionCreate:        ReprCategory,
				ActionUpdate:        ReprCategory,
				ActionPartialUpdate: ReprCategory,
				ActionDestroy:       ReprCategory,
			},
			overrides: []override{
				{action: ActionList, predicate: AllowAny},
				{action: ActionRetrieve, predicate: AllowAny},
			},
		},
		ResourceComment: {
			defaultPredicate: Authenticated,
			representations: map[Action]Representation{
				ActionDestroy: ReprComment,
			},
			overrides: []override{
				{action: ActionDestroy, predicate: Owner},
			},
		},
		ResourceHomepage: {
			defaultPredicate: Authenticated,
			representations: map[Action]Representation{
				ActionList: ReprArticleHomepage,
				ActionTop:  ReprArticleTop,
			},
			overrides: []override{
				{action: ActionList, predicate: AllowAny},
				{action: ActionTop, predicate: AllowAny},
			},
		},
	}}
}

// Resolve returns the decision for one incoming request. Unknown actions
// keep the resource default predicate; unknown resources deny outright.
func (t *Table) Resolve(res Resource, action Action, method string) Decision {
	rp, ok := t.resources[res]
	if !ok {
		return Decision{Authorize: func(Request) error { return ErrForbidden }}
	}

	predicate := rp.defaultPredicate
	for _, o := range rp.overrides {
		if o.action != action {
			continue
		}
		if o.method != "" && o.method != method {
			continue
		}
		predicate = o.predicate
	}

	return Decision{
		Representation: rp.representations[action],
		Authorize:      predicate,
	}
}
