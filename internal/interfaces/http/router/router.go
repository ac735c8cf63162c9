// Package router mounts the API handlers on a gin engine under a versioned
// prefix.
package router

import (
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
)

// Router collects route groups and registers them under /api/<version>
type Router struct {
	engine     *gin.Engine
	version    string
	middleware []gin.HandlerFunc
	groups     []*Group
}

type Option func(*Router)

// WithAPIVersion sets the version segment of the prefix, "v1" by default
func WithAPIVersion(version string) Option {
	return func(r *Router) { r.version = version }
}

func NewRouter(engine *gin.Engine, opts ...Option) *Router {
	r := &Router{engine: engine, version: "v1"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Use adds middleware to the API prefix only. Routes registered on the
// engine directly, such as /health, do not run it.
func (r *Router) Use(middleware ...gin.HandlerFunc) *Router {
	r.middleware = append(r.middleware, middleware...)
	return r
}

func (r *Router) Mount(groups ...*Group) *Router {
	r.groups = append(r.groups, groups...)
	return r
}

func (r *Router) BasePath() string {
	return "/api/" + r.version
}

// Setup registers every mounted group on the engine and returns the routes
// it added
func (r *Router) Setup() []RouteInfo {
	api := r.engine.Group(r.BasePath(), r.middleware...)
	var routes []RouteInfo
	for _, g := range r.groups {
		routes = g.mount(api, r.BasePath(), routes)
	}
	return routes
}

// RouteInfo describes one registered route
type RouteInfo struct {
	Group  string
	Method string
	Path   string
}

// Group is a named set of routes sharing a path prefix and middleware.
// Child groups nest under their parent's prefix.
type Group struct {
	name       string
	prefix     string
	middleware []gin.HandlerFunc
	routes     []route
	children   []*Group
}

type route struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

func NewGroup(name, prefix string) *Group {
	return &Group{name: name, prefix: prefix}
}

func (g *Group) Use(middleware ...gin.HandlerFunc) *Group {
	g.middleware = append(g.middleware, middleware...)
	return g
}

func (g *Group) Handle(method, relPath string, handlers ...gin.HandlerFunc) *Group {
	g.routes = append(g.routes, route{method: method, path: relPath, handlers: handlers})
	return g
}

func (g *Group) GET(p string, h ...gin.HandlerFunc) *Group    { return g.Handle(http.MethodGet, p, h...) }
func (g *Group) POST(p string, h ...gin.HandlerFunc) *Group   { return g.Handle(http.MethodPost, p, h...) }
func (g *Group) PUT(p string, h ...gin.HandlerFunc) *Group    { return g.Handle(http.MethodPut, p, h...) }
func (g *Group) DELETE(p string, h ...gin.HandlerFunc) *Group { return g.Handle(http.MethodDelete, p, h...) }

// Group adds a child group and returns it
func (g *Group) Group(name, prefix string) *Group {
	child := NewGroup(name, prefix)
	g.children = append(g.children, child)
	return child
}

func (g *Group) mount(parent *gin.RouterGroup, base string, routes []RouteInfo) []RouteInfo {
	rg := parent.Group(g.prefix, g.middleware...)
	base = joinPath(base, g.prefix)
	for _, rt := range g.routes {
		rg.Handle(rt.method, rt.path, rt.handlers...)
		routes = append(routes, RouteInfo{Group: g.name, Method: rt.method, Path: joinPath(base, rt.path)})
	}
	for _, child := range g.children {
		routes = child.mount(rg, base, routes)
	}
	return routes
}

func joinPath(base, rel string) string {
	if rel == "" {
		return base
	}
	return path.Join(base, rel)
}
