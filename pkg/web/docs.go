package web

// docsPage is the static documentation served at GET /.
const docsPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>temi REST Gateway</title>
<style>
  body { font-family: -apple-system, sans-serif; max-width: 760px; margin: 2em auto; padding: 0 1em; color: #222; }
  h1 { border-bottom: 2px solid #444; padding-bottom: 0.2em; }
  code, pre { background: #f4f4f4; border-radius: 4px; padding: 2px 5px; }
  pre { padding: 0.8em; overflow-x: auto; }
  table { border-collapse: collapse; width: 100%; }
  th, td { border: 1px solid #ccc; padding: 6px 10px; text-align: left; }
  th { background: #eee; }
</style>
</head>
<body>
<h1>temi REST Gateway</h1>
<p>HTTP JSON facade over the temi robot SDK. All responses except this page
are JSON with a <code>success</code> flag.</p>

<h2>Endpoints</h2>
<table>
<tr><th>Method</th><th>Path</th><th>Body</th></tr>
<tr><td>POST</td><td>/turn</td><td><code>{"degrees": -360..360, "speed"?: (0,10]}</code></td></tr>
<tr><td>POST</td><td>/tilt</td><td><code>{"angle": -25..55, "speed"?: (0,10]}</code></td></tr>
<tr><td>POST</td><td>/drive</td><td><code>{"speedX": -1..1, "speedY": -1..1, "durationMs"?: (0,10000], "smart"?: bool}</code></td></tr>
<tr><td>GET</td><td>/status</td><td>&mdash;</td></tr>
<tr><td>GET</td><td>/ws/telemetry</td><td>websocket, pushes status snapshots every second</td></tr>
</table>

<h2>Examples</h2>
<pre>curl -X POST localhost:7755/turn -H 'Content-Type: application/json' \
  -d '{"degrees": 90, "speed": 1.0}'</pre>
<pre>{"success":true,"message":"Turn command executed successfully","data":{"degrees":90,"speed":1}}</pre>

<pre>curl -X POST localhost:7755/drive -H 'Content-Type: application/json' \
  -d '{"speedX": 0.5, "speedY": 0, "durationMs": 500}'</pre>
<p>Drive responds as soon as the motion task starts; the robot keeps moving
for <code>durationMs</code>. A new drive command replaces the running one.</p>

<h2>Errors</h2>
<pre>{"success":false,"error":"Invalid angle","details":"Tilt angle must be between -25 and 55 degrees"}</pre>
<p>Status codes: 400 validation or parse failure, 404 unknown route,
500 unhandled fault.</p>
</body>
</html>
`
