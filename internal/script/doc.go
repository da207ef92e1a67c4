// Package script embeds a sandboxed Lua runtime (gopher-lua) into the
// engine.
//
// A script reaches the engine through the global "engine" table:
//
//	engine.set_caption("hello")
//	engine.log("loaded", "info")
//	local id = engine.subscribe("KeyPressed", function(e)
//	    engine.log(e.key)
//	    return true -- marks the event handled
//	end)
//	engine.unsubscribe(id)
//	engine.publish("WindowResize", 800, 600)
//
// The optional globals on_update(dt) and on_event(e) are called by Layer
// each frame and for every event walking the layer stack. Callbacks run on
// the frame thread because subscriptions are delivered by ProcessEvents.
package script
